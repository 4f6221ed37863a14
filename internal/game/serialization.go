package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
)

// checksumVersion changes whenever the canonical form below changes.
const checksumVersion = 1

// StateChecksum is a digest of a GameState. Two games played from the same
// seed with the same actions produce the same hash.
type StateChecksum struct {
	Hash    string
	Version int
}

// ComputeChecksum hashes the canonical form of s with SHA-256.
func ComputeChecksum(s GameState) (*StateChecksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(canonicalForm(s))); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &StateChecksum{
		Hash:    hex.EncodeToString(hash.Sum(nil)),
		Version: checksumVersion,
	}, nil
}

// VerifyChecksum reports whether s still matches a previously computed
// checksum.
func VerifyChecksum(s GameState, expected *StateChecksum) (bool, error) {
	if expected == nil {
		return false, fmt.Errorf("no checksum to verify against")
	}
	if expected.Version != checksumVersion {
		return false, fmt.Errorf("checksum version %d not supported", expected.Version)
	}
	computed, err := ComputeChecksum(s)
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}

// canonicalForm renders s as text independent of map iteration order.
// Zone order is kept since it is part of the state.
func canonicalForm(s GameState) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%s|%d|%t|%s\n", s.Turn, s.Phase, s.TurnNumber, s.GameOver, winnerName(s))
	fmt.Fprintf(&buf, "MESSAGE:%s\n", s.Message)

	for _, seat := range []Seat{SeatPlayer, SeatAI} {
		p := s.Players[seat]
		fmt.Fprintf(&buf, "PLAYER:%s|%d|%t\n", seat, p.Hearts, p.Shielded)
		for _, z := range Zones {
			buf.WriteString("  ")
			buf.WriteString(strings.ToUpper(z.String()))
			buf.WriteString(":")
			for i, inst := range p.zone(z) {
				if i > 0 {
					buf.WriteString(",")
				}
				writeInstance(&buf, inst)
			}
			buf.WriteString("\n")
		}
		buf.WriteString("  USED:")
		for _, kind := range catalog.ShapeKinds {
			fmt.Fprintf(&buf, "%s=%d;", kind, p.UsedShapes[kind])
		}
		buf.WriteString("\n")
	}

	buf.WriteString("ATTACKERS:" + strings.Join(s.SelectedAttackers, ",") + "\n")
	buf.WriteString("PENDING:" + strings.Join(s.PendingAttackers, ",") + "\n")

	attackers := make([]string, 0, len(s.BlockAssignments))
	for a := range s.BlockAssignments {
		attackers = append(attackers, a)
	}
	sort.Strings(attackers)
	buf.WriteString("BLOCKS:")
	for _, a := range attackers {
		fmt.Fprintf(&buf, "%s>%s;", a, s.BlockAssignments[a])
	}
	buf.WriteString("\n")
	buf.WriteString("SELECTED_BLOCKER:" + s.SelectedBlocker + "\n")

	for _, e := range s.CombatLog {
		fmt.Fprintf(&buf, "EVENT:%s|%s|%s|%d\n", e.AttackerID, e.BlockerID, e.Result, e.HeartDamage)
	}

	return buf.String()
}

func writeInstance(buf *bytes.Buffer, inst CardInstance) {
	cardID := ""
	if inst.Card != nil {
		cardID = inst.Card.CardID()
	}
	fmt.Fprintf(buf, "%s/%s/%t/%t/%d", inst.UID, cardID, inst.Tapped, inst.CanAttack, inst.StrengthBoost)
}

func winnerName(s GameState) string {
	if !s.GameOver {
		return ""
	}
	return s.Winner.String()
}
