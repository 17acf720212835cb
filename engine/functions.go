package engine

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"

	"github.com/viant/sigindex/internal/codec"
	"github.com/viant/sigindex/signature"
	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterSignatureFunctions registers sig_jaccard, sig_containment and
// sig_similarity with the driver so they are available on connections opened
// after this call. Each takes two compressed signature payloads as stored in
// the sig_storage content column and yields NULL when either is NULL or has
// no sketch. Open calls it; repeated calls return the first outcome.
// Note: existing open connections will not see new functions.
func RegisterSignatureFunctions(_ *sql.DB) error {
	registerOnce.Do(func() {
		registerErr = errors.Join(
			sqlite.RegisterDeterministicScalarFunction("sig_jaccard", 2, sigJaccardImpl),
			sqlite.RegisterDeterministicScalarFunction("sig_containment", 2, sigContainmentImpl),
			sqlite.RegisterDeterministicScalarFunction("sig_similarity", 2, sigSimilarityImpl),
		)
	})
	return registerErr
}

func asSketch(arg driver.Value) (*signature.MinHash, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		payload, err := codec.Decompress(v)
		if err != nil {
			return nil, err
		}
		sig, err := signature.Unmarshal(payload)
		if err != nil {
			return nil, err
		}
		mh, err := sig.MinHash()
		if errors.Is(err, signature.ErrNoSketch) {
			return nil, nil
		}
		return mh, err
	default:
		return nil, fmt.Errorf("sig: unsupported argument type %T for signature; want BLOB", arg)
	}
}

func sigJaccardImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return compare("sig_jaccard", args, signature.Jaccard)
}

func sigContainmentImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return compare("sig_containment", args, signature.Containment)
}

func sigSimilarityImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return compare("sig_similarity", args, signature.Similarity)
}

func compare(name string, args []driver.Value, fn func(a, b *signature.MinHash) (float64, error)) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	a, err := asSketch(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asSketch(args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	score, err := fn(a, b)
	if err != nil {
		return nil, err
	}
	return score, nil
}
