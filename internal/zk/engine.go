package zk

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"attesto/internal/claims"
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

var tracer = otel.Tracer("attesto/internal/zk")

// Engine holds the compiled constraint systems and Groth16 key material for
// every claim it was constructed with. It serves both sides: Prove for the
// holder path and Verify for the relying-party path.
type Engine struct {
	logger   *slog.Logger
	circuits map[domain.ClaimID]*artifacts
}

type artifacts struct {
	cs       constraint.ConstraintSystem
	pk       groth16.ProvingKey
	vk       groth16.VerifyingKey
	vkDigest string
}

// Info describes a loaded circuit for the claim descriptor listing.
type Info struct {
	Constraints        int
	VerifyingKeyDigest string
}

// NewEngine compiles the circuit for each claim id and loads or generates its
// Groth16 keys, one goroutine per claim. With a non-empty keyDir, keys persist
// as <claim>.pk/<claim>.vk so separate prover and verifier processes share the
// same setup; with an empty keyDir a fresh setup runs per process, which only
// pairs with proofs from the same instance.
func NewEngine(logger *slog.Logger, keyDir string, ids ...domain.ClaimID) (*Engine, error) {
	e := &Engine{
		logger:   logger,
		circuits: make(map[domain.ClaimID]*artifacts, len(ids)),
	}
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, id := range ids {
		g.Go(func() error {
			art, err := compileAndKey(logger, keyDir, id)
			if err != nil {
				return fmt.Errorf("claim %s: %w", id, err)
			}
			mu.Lock()
			e.circuits[id] = art
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return e, nil
}

func compileAndKey(logger *slog.Logger, keyDir string, id domain.ClaimID) (*artifacts, error) {
	circuit, err := blankCircuit(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	logger.Info("compiled claim circuit",
		"claim_id", id.String(),
		"constraints", cs.GetNbConstraints(),
		"duration", time.Since(start),
	)

	pk, vk, cached, err := loadOrSetupKeys(cs, keyDir, id)
	if err != nil {
		return nil, err
	}
	digest, err := verifyingKeyDigest(vk)
	if err != nil {
		return nil, err
	}
	logger.Info("groth16 keys ready",
		"claim_id", id.String(),
		"cached", cached,
		"vk_digest", digest,
	)

	return &artifacts{cs: cs, pk: pk, vk: vk, vkDigest: digest}, nil
}

// loadOrSetupKeys returns cached keys when both files exist, otherwise runs a
// fresh setup and persists it. The concrete key containers must be allocated
// with the curve constructors before ReadFrom; deserializing into a nil
// interface panics.
func loadOrSetupKeys(cs constraint.ConstraintSystem, keyDir string, id domain.ClaimID) (groth16.ProvingKey, groth16.VerifyingKey, bool, error) {
	if keyDir == "" {
		pk, vk, err := groth16.Setup(cs)
		if err != nil {
			return nil, nil, false, fmt.Errorf("setup: %w", err)
		}
		return pk, vk, false, nil
	}

	pkPath := filepath.Join(keyDir, id.String()+".pk")
	vkPath := filepath.Join(keyDir, id.String()+".vk")

	if fileExists(pkPath) && fileExists(vkPath) {
		pk := groth16.NewProvingKey(ecc.BN254)
		vk := groth16.NewVerifyingKey(ecc.BN254)
		if err := readInto(pkPath, pk.ReadFrom); err != nil {
			return nil, nil, false, fmt.Errorf("read proving key: %w", err)
		}
		if err := readInto(vkPath, vk.ReadFrom); err != nil {
			return nil, nil, false, fmt.Errorf("read verifying key: %w", err)
		}
		return pk, vk, true, nil
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, nil, false, fmt.Errorf("setup: %w", err)
	}
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		return nil, nil, false, fmt.Errorf("create key dir: %w", err)
	}
	if err := writeFrom(pkPath, pk.WriteTo); err != nil {
		return nil, nil, false, fmt.Errorf("write proving key: %w", err)
	}
	if err := writeFrom(vkPath, vk.WriteTo); err != nil {
		return nil, nil, false, fmt.Errorf("write verifying key: %w", err)
	}
	return pk, vk, false, nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func readInto(path string, readFrom func(io.Reader) (int64, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = readFrom(f)
	return err
}

func writeFrom(path string, writeTo func(io.Writer) (int64, error)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := writeTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func verifyingKeyDigest(vk groth16.VerifyingKey) (string, error) {
	h := sha256.New()
	if _, err := vk.WriteTo(h); err != nil {
		return "", fmt.Errorf("digest verifying key: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Prove builds the full witness for the claim and produces a Groth16 proof.
//
// Errors: CodeProverUnavailable when the claim has no loaded circuit or the
// context is done; CodeInvalidInputShape when an input name is missing;
// CodeProofGenerationFailed when witness construction or proving fails, which
// includes witnesses that violate the circuit's range constraints.
func (e *Engine) Prove(ctx context.Context, id domain.ClaimID, private, public claims.Inputs) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "zk.Prove",
		trace.WithAttributes(attribute.String("claim.id", id.String())))
	defer span.End()

	art, ok := e.circuits[id]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeProverUnavailable, "no circuit loaded for claim %s", id)
	}
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProverUnavailable, "proving aborted")
	}

	assignment, err := fullAssignment(id, private, public)
	if err != nil {
		return nil, err
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProofGenerationFailed, "witness construction failed")
	}

	start := time.Now()
	proof, err := groth16.Prove(art.cs, art.pk, witness)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProofGenerationFailed, "proving failed")
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProofGenerationFailed, "proof serialization failed")
	}
	e.logger.DebugContext(ctx, "generated proof",
		"claim_id", id.String(),
		"proof_bytes", buf.Len(),
		"duration", time.Since(start),
	)
	return buf.Bytes(), nil
}

// Verify checks a proof against the claim's verifying key and the ordered
// public inputs. It returns (false, nil) when the proof is well-formed but
// does not verify, and (false, err) only for malformed inputs or
// infrastructure failures; callers map the two cases to different outcomes.
func (e *Engine) Verify(ctx context.Context, id domain.ClaimID, proofBytes []byte, publicInputs []*big.Int) (bool, error) {
	ctx, span := tracer.Start(ctx, "zk.Verify",
		trace.WithAttributes(attribute.String("claim.id", id.String())))
	defer span.End()

	art, ok := e.circuits[id]
	if !ok {
		return false, dErrors.Newf(dErrors.CodeVerifierUnavailable, "no circuit loaded for claim %s", id)
	}
	if err := ctx.Err(); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeVerifierUnavailable, "verification aborted")
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		// Undecodable proof bytes are an invalid proof, not an outage.
		e.logger.DebugContext(ctx, "proof deserialization failed", "claim_id", id.String(), "error", err)
		return false, nil
	}

	assignment, err := publicAssignment(id, publicInputs)
	if err != nil {
		return false, err
	}
	pubWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeVerifierUnavailable, "public witness construction failed")
	}

	start := time.Now()
	if err := groth16.Verify(proof, art.vk, pubWitness); err != nil {
		e.logger.DebugContext(ctx, "proof rejected",
			"claim_id", id.String(),
			"duration", time.Since(start),
		)
		return false, nil
	}
	return true, nil
}

// Info reports the loaded circuit's shape for a claim.
func (e *Engine) Info(id domain.ClaimID) (Info, bool) {
	art, ok := e.circuits[id]
	if !ok {
		return Info{}, false
	}
	return Info{
		Constraints:        art.cs.GetNbConstraints(),
		VerifyingKeyDigest: art.vkDigest,
	}, true
}
