package rewardstore

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"vaultrewards/native/vaultrewards"
	"vaultrewards/storage"
)

var (
	globalKey         = []byte("vaultrewards/global")
	participantPrefix = []byte("vaultrewards/participant/")
)

// ErrConservation is returned by Audit when participant collateral does not
// add up to the global total.
var ErrConservation = errors.New("reward store: collateral conservation violated")

type globalRecord struct {
	TotalCollateral     *big.Int
	RewardPerCollateral *big.Int
	LastUpdateHeight    uint64
	EmergencyShutdown   bool
}

type participantRecord struct {
	Address    common.Address
	Collateral *big.Int
	Snapshot   *big.Int
	Unclaimed  *big.Int
}

// Store persists reward ledger records as RLP blobs in a key-value database.
type Store struct {
	db storage.Database
}

// New binds a store to db.
func New(db storage.Database) *Store {
	return &Store{db: db}
}

func participantKey(addr common.Address) []byte {
	key := make([]byte, 0, len(participantPrefix)+common.AddressLength)
	key = append(key, participantPrefix...)
	return append(key, addr.Bytes()...)
}

// GetGlobal returns the stored global state, or the zero state if none exists.
func (s *Store) GetGlobal() (*vaultrewards.GlobalState, error) {
	data, err := s.db.Get(globalKey)
	if errors.Is(err, storage.ErrNotFound) {
		return &vaultrewards.GlobalState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load global state: %w", err)
	}
	var rec globalRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return nil, fmt.Errorf("decode global state: %w", err)
	}
	total, err := vaultrewards.AmountFromBig(rec.TotalCollateral)
	if err != nil {
		return nil, err
	}
	cumulative, err := vaultrewards.AmountFromBig(rec.RewardPerCollateral)
	if err != nil {
		return nil, err
	}
	return &vaultrewards.GlobalState{
		TotalCollateral:               total,
		CumulativeRewardPerCollateral: cumulative,
		LastUpdateHeight:              rec.LastUpdateHeight,
		EmergencyShutdown:             rec.EmergencyShutdown,
	}, nil
}

// GetParticipant returns the stored record for addr, or a zero record.
func (s *Store) GetParticipant(addr common.Address) (*vaultrewards.Participant, error) {
	data, err := s.db.Get(participantKey(addr))
	if errors.Is(err, storage.ErrNotFound) {
		return &vaultrewards.Participant{Address: addr}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load participant %s: %w", addr.Hex(), err)
	}
	return decodeParticipant(data)
}

// Commit writes the global record and every participant in one batch.
func (s *Store) Commit(global *vaultrewards.GlobalState, participants ...*vaultrewards.Participant) error {
	batch := new(storage.Batch)
	if global != nil {
		encoded, err := rlp.EncodeToBytes(&globalRecord{
			TotalCollateral:     global.TotalCollateral.Raw(),
			RewardPerCollateral: global.CumulativeRewardPerCollateral.Raw(),
			LastUpdateHeight:    global.LastUpdateHeight,
			EmergencyShutdown:   global.EmergencyShutdown,
		})
		if err != nil {
			return fmt.Errorf("encode global state: %w", err)
		}
		batch.Put(globalKey, encoded)
	}
	for _, p := range participants {
		if p == nil {
			continue
		}
		encoded, err := rlp.EncodeToBytes(&participantRecord{
			Address:    p.Address,
			Collateral: p.Collateral.Raw(),
			Snapshot:   p.RewardPerCollateralSnapshot.Raw(),
			Unclaimed:  p.UnclaimedReward.Raw(),
		})
		if err != nil {
			return fmt.Errorf("encode participant %s: %w", p.Address.Hex(), err)
		}
		batch.Put(participantKey(p.Address), encoded)
	}
	return s.db.Write(batch)
}

// Participants returns every stored participant ordered by address.
func (s *Store) Participants() ([]*vaultrewards.Participant, error) {
	var (
		out     []*vaultrewards.Participant
		iterErr error
	)
	err := s.db.Iterate(participantPrefix, func(_, value []byte) bool {
		p, err := decodeParticipant(value)
		if err != nil {
			iterErr = err
			return false
		}
		out = append(out, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return out, nil
}

// Audit checks that stored participant collateral sums to the global total.
func (s *Store) Audit() error {
	global, err := s.GetGlobal()
	if err != nil {
		return err
	}
	participants, err := s.Participants()
	if err != nil {
		return err
	}
	sum := vaultrewards.Amount{}
	for _, p := range participants {
		if sum, err = sum.Add(p.Collateral); err != nil {
			return err
		}
	}
	if !sum.Equal(global.TotalCollateral) {
		return fmt.Errorf("%w: participants hold %s, total is %s", ErrConservation, sum, global.TotalCollateral)
	}
	return nil
}

func decodeParticipant(data []byte) (*vaultrewards.Participant, error) {
	var rec participantRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return nil, fmt.Errorf("decode participant: %w", err)
	}
	collateral, err := vaultrewards.AmountFromBig(rec.Collateral)
	if err != nil {
		return nil, err
	}
	snapshot, err := vaultrewards.AmountFromBig(rec.Snapshot)
	if err != nil {
		return nil, err
	}
	unclaimed, err := vaultrewards.AmountFromBig(rec.Unclaimed)
	if err != nil {
		return nil, err
	}
	return &vaultrewards.Participant{
		Address:                     rec.Address,
		Collateral:                  collateral,
		RewardPerCollateralSnapshot: snapshot,
		UnclaimedReward:             unclaimed,
	}, nil
}
