package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical order statuses. Input from the UI arrives in arbitrary casing
// and accenting ("entregue", "ENTREGÜE"), so every comparison goes through
// NormalizeStatus first and classification through this closed set.
const (
	StatusAberta      = "ABERTA"
	StatusEmAndamento = "EM ANDAMENTO"
	StatusAprovado    = "APROVADO"
	StatusEntregue    = "ENTREGUE"
	StatusFinalizado  = "FINALIZADO"
	StatusRecusado    = "RECUSADO"
)

// terminalStatuses are the statuses that finalize an order.
var terminalStatuses = map[string]bool{
	StatusEntregue:   true,
	StatusFinalizado: true,
}

// transitions is the allowed forward movement between canonical statuses.
// Free-text statuses outside the canonical set are not constrained by the
// table; they only ever classify as non-terminal.
var transitions = map[string][]string{
	StatusAberta:      {StatusEmAndamento, StatusAprovado, StatusEntregue, StatusFinalizado, StatusRecusado},
	StatusEmAndamento: {StatusAprovado, StatusEntregue, StatusFinalizado, StatusRecusado},
	StatusAprovado:    {StatusEntregue, StatusFinalizado, StatusRecusado},
}

// NormalizeStatus uppercases a status string and strips diacritics, so
// "entregüe" and "ENTREGUE" compare equal.
func NormalizeStatus(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

// IsTerminalStatus reports whether a single status string, after
// normalization, is one of the terminal tokens.
func IsTerminalStatus(s string) bool {
	return terminalStatuses[NormalizeStatus(s)]
}

// IsFinalizing reports whether an update carrying these general and
// technical status values represents a terminal transition.
func IsFinalizing(status, statusTecnico string) bool {
	return IsTerminalStatus(status) || IsTerminalStatus(statusTecnico)
}

// IsApproved reports whether the status normalizes to the approval token.
func IsApproved(s string) bool {
	return NormalizeStatus(s) == StatusAprovado
}

// CanTransition reports whether moving between two canonical statuses is
// allowed: forward movement per the table, re-applying the same status
// always, and no movement out of a terminal or declined state. Statuses
// outside the canonical set are not constrained.
func CanTransition(from, to string) bool {
	fromNorm := NormalizeStatus(from)
	toNorm := NormalizeStatus(to)
	if fromNorm == toNorm {
		return true
	}
	if !isCanonical(fromNorm) || !isCanonical(toNorm) {
		return true
	}
	if terminalStatuses[fromNorm] || fromNorm == StatusRecusado {
		return false
	}
	for _, s := range transitions[fromNorm] {
		if s == toNorm {
			return true
		}
	}
	return false
}

func isCanonical(normalized string) bool {
	if terminalStatuses[normalized] || normalized == StatusRecusado {
		return true
	}
	_, ok := transitions[normalized]
	return ok
}
