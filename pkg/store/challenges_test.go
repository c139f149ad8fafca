package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeLifecycle(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	t.Run("Create", func(t *testing.T) {
		ch := &Challenge{
			ID:            "chal_abc12345",
			IntegratorID:  "intg_11111111",
			MinAge:        18,
			Status:        ChallengeStatusPending,
			WalletAddress: "WALLET123",
			CreatedAt:     now,
			ExpiresAt:     now.Add(15 * time.Minute),
		}
		require.NoError(t, s.CreateChallenge(ch))
	})

	t.Run("Get", func(t *testing.T) {
		ch, err := s.GetChallenge("chal_abc12345")
		require.NoError(t, err)
		require.NotNil(t, ch)

		assert.Equal(t, "chal_abc12345", ch.ID)
		assert.Equal(t, "intg_11111111", ch.IntegratorID)
		assert.Equal(t, 18, ch.MinAge)
		assert.Equal(t, ChallengeStatusPending, ch.Status)
		assert.Equal(t, "WALLET123", ch.WalletAddress)
		assert.Nil(t, ch.RespondedAt, "pending challenge should have no response time")
		assert.Equal(t, now.Unix(), ch.CreatedAt.Unix())
	})

	t.Run("GetMissing", func(t *testing.T) {
		ch, err := s.GetChallenge("chal_nope")
		require.NoError(t, err)
		assert.Nil(t, ch)
	})

	t.Run("Approve", func(t *testing.T) {
		require.NoError(t, s.UpdateChallengeStatus("chal_abc12345", ChallengeStatusApproved))

		ch, err := s.GetChallenge("chal_abc12345")
		require.NoError(t, err)
		require.NotNil(t, ch)
		assert.Equal(t, ChallengeStatusApproved, ch.Status)
		require.NotNil(t, ch.RespondedAt, "approval should record response time")
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		err := s.UpdateChallengeStatus("chal_nope", ChallengeStatusApproved)
		assert.Error(t, err)
	})
}

func TestChallengeExpireKeepsResponseTimeUnset(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	ch := &Challenge{
		ID:           "chal_expire01",
		IntegratorID: "intg_11111111",
		MinAge:       21,
		Status:       ChallengeStatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Minute),
	}
	require.NoError(t, s.CreateChallenge(ch))
	require.NoError(t, s.UpdateChallengeStatus("chal_expire01", ChallengeStatusExpired))

	got, err := s.GetChallenge("chal_expire01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ChallengeStatusExpired, got.Status)
	assert.Nil(t, got.RespondedAt, "expiry is not a wallet response")
}

func TestListChallengesByIntegrator(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	for i, id := range []string{"chal_one", "chal_two"} {
		require.NoError(t, s.CreateChallenge(&Challenge{
			ID:           id,
			IntegratorID: "intg_owner",
			MinAge:       18,
			Status:       ChallengeStatusPending,
			CreatedAt:    now.Add(time.Duration(i) * time.Second),
			ExpiresAt:    now.Add(15 * time.Minute),
		}))
	}
	require.NoError(t, s.CreateChallenge(&Challenge{
		ID:           "chal_other",
		IntegratorID: "intg_other",
		MinAge:       18,
		Status:       ChallengeStatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(15 * time.Minute),
	}))

	challenges, err := s.ListChallengesByIntegrator("intg_owner")
	require.NoError(t, err)
	require.Len(t, challenges, 2)
	assert.Equal(t, "chal_two", challenges[0].ID, "newest first")
	for _, ch := range challenges {
		assert.Equal(t, "intg_owner", ch.IntegratorID)
	}
}

func TestSetChallengeWallet(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	require.NoError(t, s.CreateChallenge(&Challenge{
		ID:           "chal_wallet",
		IntegratorID: "intg_owner",
		MinAge:       18,
		Status:       ChallengeStatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(15 * time.Minute),
	}))
	require.NoError(t, s.SetChallengeWallet("chal_wallet", "NEWWALLET"))

	ch, err := s.GetChallenge("chal_wallet")
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.Equal(t, "NEWWALLET", ch.WalletAddress)
}
