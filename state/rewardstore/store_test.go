package rewardstore

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	nativecommon "vaultrewards/native/common"
	"vaultrewards/native/vaultrewards"
	"vaultrewards/storage"
)

var (
	guardian = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice    = common.HexToAddress("0x0000000000000000000000000000000000000001")
	bob      = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

func TestStoreReturnsZeroRecordsWhenEmpty(t *testing.T) {
	store := New(storage.NewMemDB())

	global, err := store.GetGlobal()
	require.NoError(t, err)
	require.True(t, global.TotalCollateral.IsZero())
	require.Equal(t, uint64(0), global.LastUpdateHeight)

	p, err := store.GetParticipant(alice)
	require.NoError(t, err)
	require.Equal(t, alice, p.Address)
	require.True(t, p.Collateral.IsZero())

	participants, err := store.Participants()
	require.NoError(t, err)
	require.Empty(t, participants)
	require.NoError(t, store.Audit())
}

func TestStoreRoundTripsThroughLevelDB(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.NewLevelDB(dir)
	require.NoError(t, err)

	global := &vaultrewards.GlobalState{
		TotalCollateral:               vaultrewards.MustParseAmount("12.5"),
		CumulativeRewardPerCollateral: vaultrewards.MustParseAmount("128.000001"),
		LastUpdateHeight:              42,
		EmergencyShutdown:             true,
	}
	participant := &vaultrewards.Participant{
		Address:                     alice,
		Collateral:                  vaultrewards.MustParseAmount("12.5"),
		RewardPerCollateralSnapshot: vaultrewards.MustParseAmount("64"),
		UnclaimedReward:             vaultrewards.MustParseAmount("800.25"),
	}
	require.NoError(t, New(db).Commit(global, participant))
	db.Close()

	db, err = storage.NewLevelDB(dir)
	require.NoError(t, err)
	defer db.Close()
	store := New(db)

	gotGlobal, err := store.GetGlobal()
	require.NoError(t, err)
	require.Equal(t, global, gotGlobal)

	gotParticipant, err := store.GetParticipant(alice)
	require.NoError(t, err)
	require.Equal(t, participant, gotParticipant)
	require.NoError(t, store.Audit())
}

func TestStoreBacksEngine(t *testing.T) {
	store := New(storage.NewMemDB())
	engine := vaultrewards.NewEngine(
		vaultrewards.ConstantSchedule{Rate: vaultrewards.MustAmount(320)},
		nativecommon.StaticGuardian(guardian),
	)
	engine.SetState(store)

	_, err := engine.IncreaseCollateral(alice, vaultrewards.MustAmount(5), 1)
	require.NoError(t, err)
	_, err = engine.IncreaseCollateral(bob, vaultrewards.MustAmount(5), 3)
	require.NoError(t, err)

	participants, err := store.Participants()
	require.NoError(t, err)
	require.Len(t, participants, 2)
	require.Equal(t, alice, participants[0].Address)
	require.Equal(t, bob, participants[1].Address)
	require.NoError(t, store.Audit())

	pending, err := engine.PendingRewards(alice, 4)
	require.NoError(t, err)
	require.Equal(t, "800", pending.String())

	stored, err := store.GetParticipant(alice)
	require.NoError(t, err)
	require.True(t, stored.UnclaimedReward.IsZero())
}

func TestAuditDetectsConservationBreak(t *testing.T) {
	store := New(storage.NewMemDB())
	require.NoError(t, store.Commit(
		&vaultrewards.GlobalState{TotalCollateral: vaultrewards.MustAmount(10)},
		&vaultrewards.Participant{Address: alice, Collateral: vaultrewards.MustAmount(4)},
	))
	require.ErrorIs(t, store.Audit(), ErrConservation)
}
