package services

import (
	"strings"

	"legal_office_go/services/judicial"
)

// Normalized party roles
const (
	RoleActive  = "active"
	RolePassive = "passive"
	RoleLawyer  = "lawyer"
	RoleOther   = "other"
)

// PartyEntry is a party after normalization. Lawyers nested under a party
// stay attached to it; only parties the provider reports as counsel
// themselves land in the top-level lawyers bucket.
type PartyEntry struct {
	Name           string               `json:"name"`
	SideOrRoleRaw  string               `json:"side_or_role_raw,omitempty"`
	NormalizedRole string               `json:"normalized_role"`
	Document       string               `json:"document,omitempty"`
	Lawyers        []judicial.RawLawyer `json:"lawyers,omitempty"`
}

// NormalizedParties are the four buckets every raw payload collapses into
type NormalizedParties struct {
	ActiveParties  []PartyEntry `json:"active_parties"`
	PassiveParties []PartyEntry `json:"passive_parties"`
	Lawyers        []PartyEntry `json:"lawyers"`
	Others         []PartyEntry `json:"others"`
}

// Role vocabularies. Matching is substring-based after lowercasing and
// accent folding, so "Advogado", "ADVOGADA" and "advogado(a)" all hit
// "advogad". Kept deliberately short stems for the same reason.
var (
	lawyerMarkers = []string{"advogad", "procurador", "defensor", "oab"}

	plaintiffMarkers = []string{
		"autor", "requerente", "exequente", "reclamante", "embargante",
		"impetrante", "agravante", "apelante", "demandante", "recorrente",
		"credor", "denunciante",
	}

	defendantMarkers = []string{
		"reu", "requerido", "executado", "reclamado", "embargado",
		"impetrado", "agravado", "apelado", "demandado", "recorrido",
		"devedor", "denunciado",
	}
)

// NormalizeParties maps heterogeneous provider parties into the four
// canonical buckets. It is lossy-tolerant: a party whose fields don't match
// any vocabulary degrades to Others, never to an error.
func NormalizeParties(raw []judicial.RawParty) NormalizedParties {
	result := NormalizedParties{
		ActiveParties:  []PartyEntry{},
		PassiveParties: []PartyEntry{},
		Lawyers:        []PartyEntry{},
		Others:         []PartyEntry{},
	}

	for _, p := range raw {
		entry := PartyEntry{
			Name:          strings.TrimSpace(p.Name),
			SideOrRoleRaw: strings.TrimSpace(strings.Join(nonEmpty(p.Side, p.Role, p.PersonType), " / ")),
			Document:      strings.TrimSpace(p.Document),
			Lawyers:       p.Lawyers,
		}

		entry.NormalizedRole = classifyRole(p)

		switch entry.NormalizedRole {
		case RoleLawyer:
			result.Lawyers = append(result.Lawyers, entry)
		case RoleActive:
			result.ActiveParties = append(result.ActiveParties, entry)
		case RolePassive:
			result.PassiveParties = append(result.PassiveParties, entry)
		default:
			result.Others = append(result.Others, entry)
		}
	}

	return result
}

// classifyRole applies the heuristics in order: lawyer markers win, then the
// explicit side field, then the procedural-role vocabularies.
func classifyRole(p judicial.RawParty) string {
	role := foldText(p.Role)
	personType := foldText(p.PersonType)

	if matchesAny(role, lawyerMarkers) || matchesAny(personType, lawyerMarkers) {
		return RoleLawyer
	}

	switch foldText(p.Side) {
	case "ativo", "active", "polo ativo":
		return RoleActive
	case "passivo", "passive", "polo passivo":
		return RolePassive
	}

	if matchesAny(role, plaintiffMarkers) || matchesAny(personType, plaintiffMarkers) {
		return RoleActive
	}
	if matchesAny(role, defendantMarkers) || matchesAny(personType, defendantMarkers) {
		return RolePassive
	}

	return RoleOther
}

func matchesAny(text string, markers []string) bool {
	if text == "" {
		return false
	}
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// accentReplacer folds the Portuguese accented characters the provider
// payloads actually use, so "Réu" matches the "reu" marker
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e", "ë", "e",
	"í", "i", "î", "i", "ì", "i", "ï", "i",
	"ó", "o", "ô", "o", "ò", "o", "õ", "o", "ö", "o",
	"ú", "u", "û", "u", "ù", "u", "ü", "u",
	"ç", "c",
)

func foldText(s string) string {
	return accentReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
