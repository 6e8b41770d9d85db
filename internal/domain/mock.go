package domain

import (
	"context"
	"sync"
)

// MockGateway implements KubeGateway for testing.
// Objects are keyed by namespace.
type MockGateway struct {
	ContextVal   string
	ServerURLVal string

	Namespaces   []NamespaceInfo
	Pods         map[string][]Manifest
	Deployments  map[string][]Manifest
	StatefulSets map[string][]Manifest

	// Error injection
	ListNamespacesErr   error
	ListPodsErr         error
	ListDeploymentsErr  error
	ListStatefulSetsErr error
	ReconnectErr        error

	// Call tracking
	mu                    sync.Mutex
	ListNamespacesCalls   int
	ListPodsCalls         int
	ListDeploymentsCalls  int
	ListStatefulSetsCalls int
	ReconnectCalls        int
	ListedNamespaces      []string
}

// Compile-time check.
var _ KubeGateway = (*MockGateway)(nil)

func (m *MockGateway) GetContext() string   { return m.ContextVal }
func (m *MockGateway) GetServerURL() string { return m.ServerURLVal }

func (m *MockGateway) Reconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReconnectCalls++
	return m.ReconnectErr
}

func (m *MockGateway) ListNamespaces(_ context.Context) ([]NamespaceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListNamespacesCalls++
	if m.ListNamespacesErr != nil {
		return nil, m.ListNamespacesErr
	}
	return m.Namespaces, nil
}

func (m *MockGateway) ListPods(_ context.Context, namespace string) ([]Manifest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListPodsCalls++
	m.ListedNamespaces = append(m.ListedNamespaces, namespace)
	if m.ListPodsErr != nil {
		return nil, m.ListPodsErr
	}
	return m.Pods[namespace], nil
}

func (m *MockGateway) ListDeployments(_ context.Context, namespace string) ([]Manifest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListDeploymentsCalls++
	m.ListedNamespaces = append(m.ListedNamespaces, namespace)
	if m.ListDeploymentsErr != nil {
		return nil, m.ListDeploymentsErr
	}
	return m.Deployments[namespace], nil
}

func (m *MockGateway) ListStatefulSets(_ context.Context, namespace string) ([]Manifest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListStatefulSetsCalls++
	m.ListedNamespaces = append(m.ListedNamespaces, namespace)
	if m.ListStatefulSetsErr != nil {
		return nil, m.ListStatefulSetsErr
	}
	return m.StatefulSets[namespace], nil
}
