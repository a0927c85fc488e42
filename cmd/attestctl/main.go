// Command attestctl is the command-line companion to the attesto server. It
// runs the trusted setup, turns raw identity attributes into submittable
// proof bundles, talks to a running server for token exchange and submission,
// and mints the party credentials the server is provisioned with.
package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	attestation "attesto/contracts/attestation"
	"attesto/internal/claims"
	"attesto/internal/party/secrets"
	"attesto/internal/prover"
	"attesto/internal/zk"
	"attesto/pkg/domain"
)

const requestTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "attestctl",
		Short:         "Prove and submit zero-knowledge identity claims",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(keygenCmd(), proveCmd(), tokenCmd(), submitCmd(), credentialCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func keygenCmd() *cobra.Command {
	var keyDir string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Compile the claim circuits and persist their Groth16 keys",
		RunE: func(*cobra.Command, []string) error {
			registry, err := claims.Default()
			if err != nil {
				return err
			}
			if _, err := zk.NewEngine(stderrLogger(), keyDir, claimIDs(registry)...); err != nil {
				return err
			}
			fmt.Printf("keys ready under %s\n", keyDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyDir, "keydir", envDefault("ATTESTO_KEY_DIR", "keys"), "directory for proving and verifying keys")
	return cmd
}

func proveCmd() *cobra.Command {
	var (
		keyDir    string
		claimName string
		dob       string
		passport  string
		submitted string
		secretS   string
		saltS     string
		policyTag string
		dateS     string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "prove",
		Short: "Generate a proof bundle for one claim",
		RunE: func(cmd *cobra.Command, _ []string) error {
			claimID, err := domain.ParseClaimID(claimName)
			if err != nil {
				return err
			}
			secret, err := fieldFlag("secret", secretS)
			if err != nil {
				return err
			}
			salt, err := fieldFlag("salt", saltS)
			if err != nil {
				return err
			}
			date, err := currentDate(dateS)
			if err != nil {
				return err
			}

			registry, err := claims.Default()
			if err != nil {
				return err
			}
			logger := stderrLogger()
			engine, err := zk.NewEngine(logger, keyDir, claimID)
			if err != nil {
				return err
			}

			issued, err := prover.NewService(registry, engine, logger).RequestProof(cmd.Context(), prover.Request{
				ClaimID: claimID,
				Attributes: prover.Attributes{
					DateOfBirth:    dob,
					PassportName:   passport,
					SubmittedName:  submitted,
					IdentitySecret: secret,
				},
				Context: prover.Context{
					Salt:        salt,
					CurrentDate: date,
					PolicyTag:   policyTag,
				},
			})
			if err != nil {
				return err
			}

			raw, err := json.MarshalIndent(issued.Bundle, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, raw, 0o644); err != nil {
				return err
			}

			fmt.Printf("bundle written to %s\n", outPath)
			fmt.Printf("salt: %s\n", salt.String())
			fmt.Printf("nullifier: %s\n", issued.Nullifier.String())
			for name, ok := range issued.Outcomes {
				fmt.Printf("outcome %s: %t\n", name, ok)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&keyDir, "keydir", envDefault("ATTESTO_KEY_DIR", "keys"), "directory for proving and verifying keys")
	cmd.Flags().StringVar(&claimName, "claim", "", "claim to prove (over_18, name_match, identity_attestation)")
	cmd.Flags().StringVar(&dob, "dob", "", "date of birth, YYYY-MM-DD")
	cmd.Flags().StringVar(&passport, "passport-name", "", "name as printed on the identity document")
	cmd.Flags().StringVar(&submitted, "submitted-name", "", "name as typed by the holder")
	cmd.Flags().StringVar(&secretS, "secret", os.Getenv("ATTESTO_IDENTITY_SECRET"), "identity secret as a decimal field element, random when omitted")
	cmd.Flags().StringVar(&saltS, "salt", "", "verification context salt as a decimal field element, random when omitted")
	cmd.Flags().StringVar(&policyTag, "policy", "kyc-basic", "policy tag scoping the requirement hash")
	cmd.Flags().StringVar(&dateS, "date", "", "verification date, YYYY-MM-DD, today when omitted")
	cmd.Flags().StringVar(&outPath, "out", "bundle.json", "output path for the proof bundle")
	_ = cmd.MarkFlagRequired("claim")
	return cmd
}

func credentialCmd() *cobra.Command {
	var partyID string

	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Mint a party secret and the matching ATTESTO_PARTIES entry",
		RunE: func(*cobra.Command, []string) error {
			if _, err := domain.ParsePartyID(partyID); err != nil {
				return err
			}
			secret, err := secrets.Generate()
			if err != nil {
				return err
			}
			hash, err := secrets.Hash(secret)
			if err != nil {
				return err
			}
			// Entry on stdout for pasting into config; the secret itself goes
			// to stderr and is never stored anywhere.
			fmt.Fprintf(os.Stderr, "party secret (hand to the party now, it cannot be recovered): %s\n", secret)
			fmt.Printf("%s:%s\n", partyID, hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&partyID, "party", "", "party id the credential belongs to")
	_ = cmd.MarkFlagRequired("party")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		server  string
		partyID string
		secret  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange party credentials for an access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp struct {
				AccessToken string `json:"access_token"`
			}
			err := postJSON(cmd.Context(), server+"/v1/token", "", map[string]string{
				"party_id":     partyID,
				"party_secret": secret,
			}, &resp)
			if err != nil {
				return err
			}
			// Bare token on stdout so it can be captured by a shell.
			fmt.Println(resp.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", envDefault("ATTESTO_SERVER_URL", "http://localhost:8080"), "attesto server base URL")
	cmd.Flags().StringVar(&partyID, "party", os.Getenv("ATTESTO_PARTY_ID"), "party id")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("ATTESTO_PARTY_SECRET"), "party secret")
	return cmd
}

func submitCmd() *cobra.Command {
	var (
		server     string
		token      string
		bundlePath string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a proof bundle for verification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(bundlePath)
			if err != nil {
				return err
			}
			var bundle attestation.ProofBundle
			if err := json.Unmarshal(raw, &bundle); err != nil {
				return fmt.Errorf("parse bundle %s: %w", bundlePath, err)
			}

			var result attestation.VerificationResult
			if err := postJSON(cmd.Context(), server+"/v1/verify", token, bundle, &result); err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", envDefault("ATTESTO_SERVER_URL", "http://localhost:8080"), "attesto server base URL")
	cmd.Flags().StringVar(&token, "token", os.Getenv("ATTESTO_TOKEN"), "bearer token from attestctl token")
	cmd.Flags().StringVar(&bundlePath, "bundle", "bundle.json", "path to the proof bundle")
	return cmd
}

func postJSON(ctx context.Context, url, token string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
			return fmt.Errorf("%s: %s %s", resp.Status, envelope.Error, envelope.Description)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// fieldFlag parses a decimal field element flag, drawing a random element
// when the flag was omitted.
func fieldFlag(name, s string) (*big.Int, error) {
	if s == "" {
		v, err := rand.Int(rand.Reader, ecc.BN254.ScalarField())
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("--%s must be a decimal integer", name)
	}
	return v, nil
}

func currentDate(s string) (claims.Date, error) {
	if s == "" {
		now := time.Now().UTC()
		return claims.Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}, nil
	}
	return claims.ParseDate(s)
}

func claimIDs(registry *claims.Registry) []domain.ClaimID {
	specs := registry.List()
	ids := make([]domain.ClaimID, 0, len(specs))
	for _, spec := range specs {
		ids = append(ids, spec.ID)
	}
	return ids
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// stderrLogger keeps engine progress visible without polluting stdout, which
// carries the machine-readable outputs.
func stderrLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
