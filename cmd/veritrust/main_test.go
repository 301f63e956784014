package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritrust/internal/ledger/models"
)

const creditProof = "0x920667f7c426de8b5d5410ecbcd215c6b6ec2700b02f8a16a224458174b3f23e"

const creditFields = `{"credit_score":755,"risk_label":"Low Risk","trust_score":80}`

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestProofHash(t *testing.T) {
	out, err := execute(t, "proof", "hash", "--owner", "u1", "--kind", "score", "--fields", creditFields)

	require.NoError(t, err)
	assert.Equal(t, creditProof, strings.TrimSpace(out))
}

func TestProofHashFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.json")
	require.NoError(t, os.WriteFile(path, []byte(creditFields), 0o600))

	out, err := execute(t, "proof", "hash", "--owner", "u1", "--kind", "score", "-f", path)

	require.NoError(t, err)
	assert.Equal(t, creditProof, strings.TrimSpace(out))
}

func TestProofVerify(t *testing.T) {
	t.Run("matching proof", func(t *testing.T) {
		out, err := execute(t, "proof", "verify", "--owner", "u1", "--kind", "score",
			"--fields", creditFields, "--proof", creditProof)
		require.NoError(t, err)
		assert.Equal(t, "valid", strings.TrimSpace(out))
	})

	t.Run("hex case is ignored", func(t *testing.T) {
		_, err := execute(t, "proof", "verify", "--owner", "u1", "--kind", "score",
			"--fields", creditFields, "--proof", strings.ToUpper(creditProof))
		assert.NoError(t, err)
	})

	t.Run("other owner", func(t *testing.T) {
		out, err := execute(t, "proof", "verify", "--owner", "u2", "--kind", "score",
			"--fields", creditFields, "--proof", creditProof)
		assert.ErrorIs(t, err, errProofMismatch)
		assert.Contains(t, out, "invalid (computed 0x")
	})
}

func TestProofRejectsIndexKind(t *testing.T) {
	_, err := execute(t, "proof", "hash", "--owner", "u1", "--kind", "fraud-index", "--fields", `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind must be one of")
}

type stubFinder struct {
	recs     []models.Record
	degraded bool
}

func (s stubFinder) FindBy(context.Context, string, string) []models.Record { return s.recs }
func (s stubFinder) Degraded() bool                                          { return s.degraded }

func TestListRecords(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := models.Record{
		ID:        uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		OwnerID:   "u1",
		Kind:      models.KindScore,
		Fields:    map[string]any{"credit_score": 755, "risk_label": "Low Risk", "trust_score": 80},
		ProofHash: creditProof,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("prints one record per line", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)

		err := listRecords(context.Background(), cmd, stubFinder{recs: []models.Record{rec, rec}}, log, models.FieldOwnerID, "u1")

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], `"proof_hash":"`+creditProof+`"`)
		assert.Contains(t, lines[0], `"risk_label":"Low Risk"`)
	})

	t.Run("unreachable backend is an error", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetOut(io.Discard)

		err := listRecords(context.Background(), cmd, stubFinder{degraded: true}, log, models.FieldOwnerID, "u1")

		assert.EqualError(t, err, "ledger backend unavailable")
	})
}
