package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// createScript claims created_at with HSETNX and, only on the claiming call,
// writes the remaining fields inside the same script. Creation is atomic, so
// a concurrent Load never observes a partial record.
var createScript = redis.NewScript(`
if redis.call("HSETNX", KEYS[1], ARGV[1], ARGV[2]) == 0 then
	return 0
end
for i = 3, #ARGV, 2 do
	redis.call("HSET", KEYS[1], ARGV[i], ARGV[i+1])
end
return 1
`)

// Hash field names of the familiar record.
const (
	fieldAge             = "age"
	fieldCareMeter       = "care_meter"
	fieldEvolutionPoints = "evolution_points"
	fieldMutations       = "mutations"
	fieldStats           = "stats"
	fieldBiome           = "biome"
	fieldLastCareTime    = "last_care_time"
	fieldCreatedAt       = "created_at"
	fieldPrivacyOptIn    = "privacy_opt_in"
	fieldNeglectWarning  = "neglect_warning"
)

func (s FamiliarStore) Load(ctx context.Context, userID string) (familiar.Familiar, error) {
	var raw map[string]string
	err := s.retry(ctx, "familiar.load", func() error {
		var opErr error
		raw, opErr = s.rdb.HGetAll(ctx, familiarKey(userID)).Result()
		return opErr
	})
	if err != nil {
		if errors.Is(err, ports.ErrStoreUnavailable) {
			// Read path degrades to "no data" once retries are gone.
			s.log.Warn("familiar load degraded to absent", zap.String("user_id", userID))
			return familiar.Familiar{}, ports.ErrNotFound
		}
		return familiar.Familiar{}, err
	}
	if len(raw) == 0 {
		return familiar.Familiar{}, ports.ErrNotFound
	}
	return decodeFamiliar(userID, raw)
}

func (s FamiliarStore) CreateIfAbsent(ctx context.Context, f familiar.Familiar) (familiar.Familiar, bool, error) {
	key := familiarKey(f.UserID)
	fields, err := encodeFamiliar(f)
	if err != nil {
		return familiar.Familiar{}, false, err
	}

	// created_at doubles as the creation guard; it goes first so the script's
	// HSETNX claims the record exactly once, losers read back the existing
	// familiar.
	args := createArgs(fields)
	var claimed bool
	err = s.retry(ctx, "familiar.create", func() error {
		res, opErr := createScript.Run(ctx, s.rdb, []string{key}, args...).Int()
		if opErr != nil {
			return opErr
		}
		claimed = res == 1
		return nil
	})
	if err != nil {
		return familiar.Familiar{}, false, err
	}
	if !claimed {
		existing, err := s.Load(ctx, f.UserID)
		if err != nil {
			return familiar.Familiar{}, false, err
		}
		return existing, false, nil
	}
	return f, true, nil
}

// createArgs flattens the encoded record into script arguments with the
// creation guard in front.
func createArgs(fields map[string]string) []interface{} {
	args := make([]interface{}, 0, 2*len(fields))
	args = append(args, fieldCreatedAt, fields[fieldCreatedAt])
	for field, value := range fields {
		if field == fieldCreatedAt {
			continue
		}
		args = append(args, field, value)
	}
	return args
}

func (s FamiliarStore) Save(ctx context.Context, f familiar.Familiar) error {
	fields, err := encodeFamiliar(f)
	if err != nil {
		return err
	}
	return s.retry(ctx, "familiar.save", func() error {
		return s.rdb.HSet(ctx, familiarKey(f.UserID), fields).Err()
	})
}

func (s FamiliarStore) Archive(ctx context.Context, f familiar.Familiar, ttl time.Duration) error {
	fields, err := encodeFamiliar(f)
	if err != nil {
		return err
	}
	key := archiveKey(f.UserID)
	return s.retry(ctx, "familiar.archive", func() error {
		if err := s.rdb.HSet(ctx, key, fields).Err(); err != nil {
			return err
		}
		return s.rdb.Expire(ctx, key, ttl).Err()
	})
}

func (s FamiliarStore) Delete(ctx context.Context, userID string) error {
	return s.retry(ctx, "familiar.delete", func() error {
		return s.rdb.Del(ctx, familiarKey(userID)).Err()
	})
}

func encodeFamiliar(f familiar.Familiar) (map[string]string, error) {
	mutations, err := json.Marshal(f.Mutations)
	if err != nil {
		return nil, err
	}
	stats, err := json.Marshal(f.Stats)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		fieldAge:             strconv.Itoa(f.Age),
		fieldCareMeter:       strconv.Itoa(f.CareMeter),
		fieldEvolutionPoints: strconv.Itoa(f.EvolutionPoints),
		fieldMutations:       string(mutations),
		fieldStats:           string(stats),
		fieldBiome:           string(f.Biome),
		fieldLastCareTime:    f.LastCareTime.UTC().Format(time.RFC3339Nano),
		fieldCreatedAt:       f.CreatedAt.UTC().Format(time.RFC3339Nano),
		fieldPrivacyOptIn:    boolField(f.PrivacyOptIn),
		fieldNeglectWarning:  boolField(f.NeglectWarning),
	}, nil
}

func decodeFamiliar(userID string, raw map[string]string) (familiar.Familiar, error) {
	f := familiar.Familiar{UserID: userID}
	f.Age, _ = strconv.Atoi(raw[fieldAge])
	f.CareMeter, _ = strconv.Atoi(raw[fieldCareMeter])
	f.EvolutionPoints, _ = strconv.Atoi(raw[fieldEvolutionPoints])
	f.Biome = familiar.Biome(raw[fieldBiome])
	f.PrivacyOptIn = raw[fieldPrivacyOptIn] == "1"
	f.NeglectWarning = raw[fieldNeglectWarning] == "1"
	f.LastCareTime, _ = time.Parse(time.RFC3339Nano, raw[fieldLastCareTime])
	f.CreatedAt, _ = time.Parse(time.RFC3339Nano, raw[fieldCreatedAt])
	if v := raw[fieldMutations]; v != "" {
		if err := json.Unmarshal([]byte(v), &f.Mutations); err != nil {
			return familiar.Familiar{}, err
		}
	}
	if v := raw[fieldStats]; v != "" {
		if err := json.Unmarshal([]byte(v), &f.Stats); err != nil {
			return familiar.Familiar{}, err
		}
	}
	return f, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
