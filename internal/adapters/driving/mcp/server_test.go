package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ports returns error", func(t *testing.T) {
		server, err := NewServer(nil)
		require.Error(t, err)
		assert.Nil(t, server)
	})

	t.Run("missing retriever returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Answerer: &mockAnswerer{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRetriever)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(validPorts())
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("rule book registers resources", func(t *testing.T) {
		ports := validPorts()
		ports.Rules = &mockRuleBook{}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{name: "empty", ports: &Ports{}, wantErr: ErrMissingRetriever},
		{name: "retriever only", ports: &Ports{Retriever: &mockRetriever{}}, wantErr: ErrMissingAnswerer},
		{name: "required ports", ports: validPorts()},
		{
			name:  "all ports",
			ports: &Ports{Retriever: &mockRetriever{}, Answerer: &mockAnswerer{}, Rules: &mockRuleBook{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
