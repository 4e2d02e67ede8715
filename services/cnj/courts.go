package cnj

// Judicial segment digits (position J of the CNJ number)
const (
	SegmentSTF       = "1"
	SegmentCNJ       = "2"
	SegmentSTJ       = "3"
	SegmentFederal   = "4"
	SegmentLabor     = "5"
	SegmentElectoral = "6"
	SegmentMilitary  = "7"
	SegmentState     = "8"
	SegmentStateMil  = "9"
)

// stateCourtCodes maps the 2-digit TR code of the state segment to the state
// abbreviation. This is the single authoritative table; every classification
// call site goes through it.
var stateCourtCodes = map[string]string{
	"01": "AC",
	"02": "AL",
	"03": "AP",
	"04": "AM",
	"05": "BA",
	"06": "CE",
	"07": "DF",
	"08": "ES",
	"09": "GO",
	"10": "MA",
	"11": "MT",
	"12": "MS",
	"13": "MG",
	"14": "PA",
	"15": "PB",
	"16": "PR",
	"17": "PE",
	"18": "PI",
	"19": "RJ",
	"20": "RN",
	"21": "RS",
	"22": "RO",
	"23": "RR",
	"24": "SC",
	"25": "SE",
	"26": "SP",
	"27": "TO",
}

// stateMilitaryCourtCodes covers the three states with their own military
// justice (segment 9)
var stateMilitaryCourtCodes = map[string]string{
	"13": "TJM-MG",
	"21": "TJM-RS",
	"26": "TJM-SP",
}

// segmentNames gives the human-readable branch of justice per segment digit
var segmentNames = map[string]string{
	SegmentSTF:       "Supremo Tribunal Federal",
	SegmentCNJ:       "Conselho Nacional de Justiça",
	SegmentSTJ:       "Superior Tribunal de Justiça",
	SegmentFederal:   "Justiça Federal",
	SegmentLabor:     "Justiça do Trabalho",
	SegmentElectoral: "Justiça Eleitoral",
	SegmentMilitary:  "Justiça Militar da União",
	SegmentState:     "Justiça Estadual",
	SegmentStateMil:  "Justiça Militar Estadual",
}

// StateAbbreviation returns the state for a state-segment TR code
func StateAbbreviation(courtCode string) (string, bool) {
	uf, ok := stateCourtCodes[courtCode]
	return uf, ok
}

// SegmentName returns the branch-of-justice name for a segment digit
func SegmentName(segment string) (string, bool) {
	name, ok := segmentNames[segment]
	return name, ok
}
