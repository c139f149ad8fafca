package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditInsertAndQuery(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	id, err := s.InsertAuditEntry(&AuditEntry{
		Timestamp: now,
		Action:    "credential.verify",
		Target:    "cred-1",
		Decision:  "valid",
		Details:   map[string]string{"issuer": "ISSUER_ADDR_1"},
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	_, err = s.InsertAuditEntry(&AuditEntry{
		Timestamp: now,
		Action:    "auth.denied",
		Target:    "/challenge/verify/chal_x",
		Decision:  "invalid_key",
	})
	require.NoError(t, err)

	t.Run("FilterByAction", func(t *testing.T) {
		entries, err := s.QueryAuditEntries(AuditFilter{Action: "credential.verify"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "cred-1", entries[0].Target)
		assert.Equal(t, "valid", entries[0].Decision)
		assert.Equal(t, "ISSUER_ADDR_1", entries[0].Details["issuer"])
	})

	t.Run("NoFilter", func(t *testing.T) {
		entries, err := s.QueryAuditEntries(AuditFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("SinceExcludesOld", func(t *testing.T) {
		entries, err := s.QueryAuditEntries(AuditFilter{Since: now.Add(time.Hour)})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Limit", func(t *testing.T) {
		entries, err := s.QueryAuditEntries(AuditFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
