// Package postgres stores optimus parameters in PostgreSQL and installs SQL
// functions that encode and decode IDs exactly like the Go package, so
// queries and views can expose obfuscated IDs directly.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/paraglidehq/optimus"
)

var (
	ErrConfigMismatch = errors.New("optimus: database config does not match application config")
	ErrNotConfigured  = errors.New("optimus: database has no optimus config")
)

// Migrate runs the idempotent migration for o. The first run stores o's
// parameters; later runs return ErrConfigMismatch if they differ, since
// changing parameters would make previously issued IDs undecodable.
func Migrate(ctx context.Context, db *sql.DB, o *optimus.Optimus) error {
	if o.ModInverse() > math.MaxInt64 {
		return fmt.Errorf("optimus: mod inverse %d does not fit in bigint", o.ModInverse())
	}

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS _optimus_config (
			id int PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			prime bigint NOT NULL,
			mod_inverse bigint NOT NULL,
			random bigint NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("optimus: create config table: %w", err)
	}

	stored, err := GetConfig(ctx, db)
	switch {
	case err == nil:
		inv, random := *stored.ModInverse, *stored.Random
		if stored.Prime != o.Prime() || inv != o.ModInverse() || random != o.Random() {
			return fmt.Errorf("%w: db has prime=%d mod_inverse=%d random=%d, app has prime=%d mod_inverse=%d random=%d",
				ErrConfigMismatch, stored.Prime, inv, random, o.Prime(), o.ModInverse(), o.Random())
		}
	case errors.Is(err, ErrNotConfigured):
		_, err = db.ExecContext(ctx, `INSERT INTO _optimus_config (prime, mod_inverse, random) VALUES ($1, $2, $3)`,
			int64(o.Prime()), int64(o.ModInverse()), int64(o.Random()))
		if err != nil {
			return fmt.Errorf("optimus: insert config: %w", err)
		}
	default:
		return err
	}

	if _, err = db.ExecContext(ctx, generateSQL(o)); err != nil {
		return fmt.Errorf("optimus: run migrations: %w", err)
	}
	return nil
}

// GetConfig reads the stored parameters. It returns ErrNotConfigured if
// Migrate has not stored any yet.
func GetConfig(ctx context.Context, db *sql.DB) (optimus.Config, error) {
	var prime, inv, random int64
	err := db.QueryRowContext(ctx, `SELECT prime, mod_inverse, random FROM _optimus_config`).Scan(&prime, &inv, &random)
	if errors.Is(err, sql.ErrNoRows) {
		return optimus.Config{}, ErrNotConfigured
	}
	if err != nil {
		return optimus.Config{}, fmt.Errorf("optimus: read config: %w", err)
	}
	return optimus.Config{
		Prime:      uint64(prime),
		ModInverse: optimus.Uint64(uint64(inv)),
		Random:     optimus.Uint64(uint64(random)),
	}, nil
}

// Load rebuilds the Optimus whose parameters are stored in the database.
func Load(ctx context.Context, db *sql.DB) (*optimus.Optimus, error) {
	cfg, err := GetConfig(ctx, db)
	if err != nil {
		return nil, err
	}
	return optimus.New(cfg)
}

func generateSQL(o *optimus.Optimus) string {
	// Only the low 31 bits of each factor affect a product modulo 2^31,
	// which also keeps every intermediate value inside bigint.
	mask := optimus.MaxInt
	prime := o.Prime() & mask
	inv := o.ModInverse() & mask
	random := o.Random()

	return fmt.Sprintf(`
CREATE OR REPLACE FUNCTION optimus_encode(n bigint)
  RETURNS bigint
  LANGUAGE sql
  IMMUTABLE PARALLEL SAFE STRICT LEAKPROOF
  AS $$
  SELECT (((n & %[1]d) * %[2]d) & %[1]d) # %[4]d;
$$;

CREATE OR REPLACE FUNCTION optimus_decode(n bigint)
  RETURNS bigint
  LANGUAGE sql
  IMMUTABLE PARALLEL SAFE STRICT LEAKPROOF
  AS $$
  SELECT (((n # %[4]d) & %[1]d) * %[3]d) & %[1]d;
$$;

CREATE OR REPLACE FUNCTION optimus_b58_encode(n bigint)
  RETURNS varchar(11)
  LANGUAGE plpgsql
  IMMUTABLE PARALLEL SAFE STRICT LEAKPROOF
  AS $$
DECLARE
  alphabet char(58) := '123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz';
  result varchar(11) := '';
BEGIN
  IF n = 0 THEN
    RETURN '1';
  END IF;
  WHILE n > 0 LOOP
    result := substring(alphabet FROM (n %% 58)::int + 1 FOR 1) || result;
    n := n / 58;
  END LOOP;
  RETURN result;
END;
$$;

CREATE OR REPLACE FUNCTION optimus_b58_decode(encoded varchar(11))
  RETURNS bigint
  LANGUAGE plpgsql
  IMMUTABLE PARALLEL SAFE STRICT LEAKPROOF
  AS $$
DECLARE
  alphabet char(58) := '123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz';
  c char(1);
  p int;
  result bigint := 0;
BEGIN
  FOR i IN 1..char_length(encoded) LOOP
    c := substring(encoded FROM i FOR 1);
    p := position(c IN alphabet);
    IF p = 0 THEN
      RAISE EXCEPTION 'Invalid base58 character: %%', c;
    END IF;
    result := (result * 58) + (p - 1);
  END LOOP;
  RETURN result;
END;
$$;

-- Obfuscated base58 text, matching optimus.ID.Format(optimus.FormatBase58)
CREATE OR REPLACE FUNCTION optimus_to_b58(id bigint)
  RETURNS varchar(11)
  LANGUAGE sql
  IMMUTABLE PARALLEL SAFE STRICT LEAKPROOF
  AS $$
  SELECT optimus_b58_encode(optimus_encode(id));
$$;

CREATE OR REPLACE FUNCTION b58_to_optimus(encoded varchar(11))
  RETURNS bigint
  LANGUAGE sql
  IMMUTABLE PARALLEL SAFE STRICT LEAKPROOF
  AS $$
  SELECT optimus_decode(optimus_b58_decode(encoded));
$$;
`,
		mask,   // 1: 31-bit mask
		prime,  // 2: prime
		inv,    // 3: mod inverse
		random, // 4: xor mask
	)
}
