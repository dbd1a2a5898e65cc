// Package synthesis defines the typed document model for extracted MOP
// synthesis procedures: one Document per paper, one SynthesisRecord per
// product, and a tagged-union Step for the procedural step variants.
package synthesis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document is the top-level shape of both ground-truth and prediction files.
type Document struct {
	Synthesis []SynthesisRecord `json:"Synthesis"`
}

// SynthesisRecord holds one synthesized product and its procedure.
type SynthesisRecord struct {
	ProductNames      []string `json:"productNames"`
	ProductCCDCNumber Text     `json:"productCCDCNumber"`
	Steps             []Step   `json:"steps"`
}

// Text is a scalar field that tolerates string, number, bool, or null JSON
// encodings; predictions are not reliable about scalar types.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(x)
	case bool:
		*t = Text(strconv.FormatBool(x))
	case float64:
		*t = Text(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported scalar type %T", v)
	}
	return nil
}

// Chemical is one entry of a chemical-list field. Names is a set of alias
// spellings; a bare string in the input decodes as a one-element set.
type Chemical struct {
	Names  StringSet `json:"chemicalName"`
	Amount Text      `json:"chemicalAmount"`
}

// StringSet decodes either a JSON array of strings or a single string.
type StringSet []string

func (s *StringSet) UnmarshalJSON(b []byte) error {
	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return fmt.Errorf("chemicalName: want string or array: %w", err)
	}
	*s = StringSet{one}
	return nil
}

// StepType tags the procedural step variants.
type StepType string

const (
	StepAdd             StepType = "Add"
	StepHeatChill       StepType = "HeatChill"
	StepFilter          StepType = "Filter"
	StepSonicate        StepType = "Sonicate"
	StepStir            StepType = "Stir"
	StepCrystallization StepType = "Crystallization"
	StepDry             StepType = "Dry"
	StepEvaporate       StepType = "Evaporate"
	StepDissolve        StepType = "Dissolve"
	StepSeparate        StepType = "Separate"
	StepTransfer        StepType = "Transfer"
)

// FieldKind distinguishes the comparison rule a field follows.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldPH
	FieldChemicals
)

// Field is one named value of a step variant, exposed uniformly so the
// comparator does not need to know the variant structs.
type Field struct {
	Name      string
	Kind      FieldKind
	Text      string
	Chemicals []Chemical
}

// StepData is the payload of one step variant.
type StepData interface {
	Fields() []Field
}

// Step is a tagged union over the procedural step variants. In JSON a step
// is a one-key object whose key is the type name.
type Step struct {
	Type StepType
	Data StepData
}

func (s *Step) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("step: want exactly one type key, got %d", len(raw))
	}
	for tag, body := range raw {
		typ, data := newStepData(tag)
		s.Type = typ
		if data == nil {
			s.Data = &UnknownData{Tag: tag}
			return nil
		}
		if err := json.Unmarshal(body, data); err != nil {
			return fmt.Errorf("step %s: %w", tag, err)
		}
		s.Data = data
	}
	return nil
}

func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]StepData{string(s.Type): s.Data})
}

// newStepData maps a JSON type tag to its variant struct. "Crystallize" is
// an accepted alias spelling of "Crystallization".
func newStepData(tag string) (StepType, StepData) {
	switch tag {
	case "Add":
		return StepAdd, &AddData{}
	case "HeatChill":
		return StepHeatChill, &HeatChillData{}
	case "Filter":
		return StepFilter, &FilterData{}
	case "Sonicate":
		return StepSonicate, &SonicateData{}
	case "Stir":
		return StepStir, &StirData{}
	case "Crystallization", "Crystallize":
		return StepCrystallization, &CrystallizationData{}
	case "Dry":
		return StepDry, &DryData{}
	case "Evaporate":
		return StepEvaporate, &EvaporateData{}
	case "Dissolve":
		return StepDissolve, &DissolveData{}
	case "Separate":
		return StepSeparate, &SeparateData{}
	case "Transfer":
		return StepTransfer, &TransferData{}
	}
	return StepType(tag), nil
}

// UnknownData preserves steps with an unrecognized type tag. They carry no
// comparable fields and therefore only ever score as type mismatches.
type UnknownData struct {
	Tag string `json:"-"`
}

func (d *UnknownData) Fields() []Field { return nil }

type AddData struct {
	UsedVesselName Text       `json:"usedVesselName"`
	UsedVesselType Text       `json:"usedVesselType"`
	AddedChemical  []Chemical `json:"addedChemical"`
	Stir           Text       `json:"stir"`
	IsLayered      Text       `json:"isLayered"`
	Atmosphere     Text       `json:"atmosphere"`
	Duration       Text       `json:"duration"`
	TargetPH       Text       `json:"targetPH"`
	Comment        Text       `json:"comment"`
	StepNumber     Text       `json:"stepNumber"`
}

func (d *AddData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "addedChemical", Kind: FieldChemicals, Chemicals: d.AddedChemical},
		{Name: "stir", Kind: FieldText, Text: string(d.Stir)},
		{Name: "isLayered", Kind: FieldText, Text: string(d.IsLayered)},
		{Name: "atmosphere", Kind: FieldText, Text: string(d.Atmosphere)},
		{Name: "duration", Kind: FieldText, Text: string(d.Duration)},
		{Name: "targetPH", Kind: FieldPH, Text: string(d.TargetPH)},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type HeatChillData struct {
	UsedVesselName     Text `json:"usedVesselName"`
	UsedVesselType     Text `json:"usedVesselType"`
	UsedDevice         Text `json:"usedDevice"`
	TargetTemperature  Text `json:"targetTemperature"`
	HeatingCoolingRate Text `json:"heatingCoolingRate"`
	Duration           Text `json:"duration"`
	UnderVacuum        Text `json:"underVacuum"`
	SealedVessel       Text `json:"sealedVessel"`
	Stir               Text `json:"stir"`
	Atmosphere         Text `json:"atmosphere"`
	Comment            Text `json:"comment"`
	StepNumber         Text `json:"stepNumber"`
}

func (d *HeatChillData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "usedDevice", Kind: FieldText, Text: string(d.UsedDevice)},
		{Name: "targetTemperature", Kind: FieldText, Text: string(d.TargetTemperature)},
		{Name: "heatingCoolingRate", Kind: FieldText, Text: string(d.HeatingCoolingRate)},
		{Name: "duration", Kind: FieldText, Text: string(d.Duration)},
		{Name: "underVacuum", Kind: FieldText, Text: string(d.UnderVacuum)},
		{Name: "sealedVessel", Kind: FieldText, Text: string(d.SealedVessel)},
		{Name: "stir", Kind: FieldText, Text: string(d.Stir)},
		{Name: "atmosphere", Kind: FieldText, Text: string(d.Atmosphere)},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type FilterData struct {
	UsedVesselName      Text       `json:"usedVesselName"`
	UsedVesselType      Text       `json:"usedVesselType"`
	WashingSolvent      []Chemical `json:"washingSolvent"`
	VacuumFiltration    Text       `json:"vacuumFiltration"`
	NumberOfFiltrations Text       `json:"numberOfFiltrations"`
	Atmosphere          Text       `json:"atmosphere"`
	Comment             Text       `json:"comment"`
	StepNumber          Text       `json:"stepNumber"`
}

func (d *FilterData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "washingSolvent", Kind: FieldChemicals, Chemicals: d.WashingSolvent},
		{Name: "vacuumFiltration", Kind: FieldText, Text: string(d.VacuumFiltration)},
		{Name: "numberOfFiltrations", Kind: FieldText, Text: string(d.NumberOfFiltrations)},
		{Name: "atmosphere", Kind: FieldText, Text: string(d.Atmosphere)},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type SonicateData struct {
	UsedVesselName Text `json:"usedVesselName"`
	UsedVesselType Text `json:"usedVesselType"`
	Duration       Text `json:"duration"`
	Temperature    Text `json:"temperature"`
	Comment        Text `json:"comment"`
	StepNumber     Text `json:"stepNumber"`
}

func (d *SonicateData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "duration", Kind: FieldText, Text: string(d.Duration)},
		{Name: "temperature", Kind: FieldText, Text: string(d.Temperature)},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type StirData struct {
	UsedVesselName Text `json:"usedVesselName"`
	UsedVesselType Text `json:"usedVesselType"`
	Duration       Text `json:"duration"`
	Temperature    Text `json:"temperature"`
	Atmosphere     Text `json:"atmosphere"`
	Comment        Text `json:"comment"`
	StepNumber     Text `json:"stepNumber"`
}

func (d *StirData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "duration", Kind: FieldText, Text: string(d.Duration)},
		{Name: "temperature", Kind: FieldText, Text: string(d.Temperature)},
		{Name: "atmosphere", Kind: FieldText, Text: string(d.Atmosphere)},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type CrystallizationData struct {
	UsedVesselName    Text `json:"usedVesselName"`
	UsedVesselType    Text `json:"usedVesselType"`
	TargetTemperature Text `json:"targetTemperature"`
	Duration          Text `json:"duration"`
	Comment           Text `json:"comment"`
	StepNumber        Text `json:"stepNumber"`
}

func (d *CrystallizationData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "targetTemperature", Kind: FieldText, Text: string(d.TargetTemperature)},
		{Name: "duration", Kind: FieldText, Text: string(d.Duration)},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type DryData struct {
	UsedVesselName Text       `json:"usedVesselName"`
	UsedVesselType Text       `json:"usedVesselType"`
	Duration       Text       `json:"duration"`
	Pressure       Text       `json:"pressure"`
	Temperature    Text       `json:"temperature"`
	DryingAgent    []Chemical `json:"dryingAgent"`
	Atmosphere     Text       `json:"atmosphere"`
	Comment        Text       `json:"comment"`
	StepNumber     Text       `json:"stepNumber"`
}

func (d *DryData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "duration", Kind: FieldText, Text: string(d.Duration)},
		{Name: "pressure", Kind: FieldText, Text: string(d.Pressure)},
		{Name: "temperature", Kind: FieldText, Text: string(d.Temperature)},
		{Name: "dryingAgent", Kind: FieldChemicals, Chemicals: d.DryingAgent},
		{Name: "atmosphere", Kind: FieldText, Text: string(d.Atmosphere)},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type EvaporateData struct {
	UsedVesselName   Text       `json:"usedVesselName"`
	UsedVesselType   Text       `json:"usedVesselType"`
	Pressure         Text       `json:"pressure"`
	Temperature      Text       `json:"temperature"`
	Duration         Text       `json:"duration"`
	RotaryEvaporator Text       `json:"rotaryEvaporator"`
	RemovedSpecies   []Chemical `json:"removedSpecies"`
	Comment          Text       `json:"comment"`
	StepNumber       Text       `json:"stepNumber"`
}

func (d *EvaporateData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "pressure", Kind: FieldText, Text: string(d.Pressure)},
		{Name: "temperature", Kind: FieldText, Text: string(d.Temperature)},
		{Name: "duration", Kind: FieldText, Text: string(d.Duration)},
		{Name: "rotaryEvaporator", Kind: FieldText, Text: string(d.RotaryEvaporator)},
		{Name: "removedSpecies", Kind: FieldChemicals, Chemicals: d.RemovedSpecies},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type DissolveData struct {
	UsedVesselName Text       `json:"usedVesselName"`
	UsedVesselType Text       `json:"usedVesselType"`
	Solvent        []Chemical `json:"solvent"`
	Duration       Text       `json:"duration"`
	Comment        Text       `json:"comment"`
	StepNumber     Text       `json:"stepNumber"`
}

func (d *DissolveData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "solvent", Kind: FieldChemicals, Chemicals: d.Solvent},
		{Name: "duration", Kind: FieldText, Text: string(d.Duration)},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type SeparateData struct {
	UsedVesselName Text       `json:"usedVesselName"`
	UsedVesselType Text       `json:"usedVesselType"`
	SeparationType Text       `json:"separationType"`
	Solvent        []Chemical `json:"solvent"`
	Comment        Text       `json:"comment"`
	StepNumber     Text       `json:"stepNumber"`
}

func (d *SeparateData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "separationType", Kind: FieldText, Text: string(d.SeparationType)},
		{Name: "solvent", Kind: FieldChemicals, Chemicals: d.Solvent},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

type TransferData struct {
	UsedVesselName   Text `json:"usedVesselName"`
	UsedVesselType   Text `json:"usedVesselType"`
	TargetVesselName Text `json:"targetVesselName"`
	TargetVesselType Text `json:"targetVesselType"`
	TransferedAmount Text `json:"transferedAmount"`
	IsLayered        Text `json:"isLayered"`
	Comment          Text `json:"comment"`
	StepNumber       Text `json:"stepNumber"`
}

func (d *TransferData) Fields() []Field {
	return []Field{
		{Name: "usedVesselName", Kind: FieldText, Text: string(d.UsedVesselName)},
		{Name: "usedVesselType", Kind: FieldText, Text: string(d.UsedVesselType)},
		{Name: "targetVesselName", Kind: FieldText, Text: string(d.TargetVesselName)},
		{Name: "targetVesselType", Kind: FieldText, Text: string(d.TargetVesselType)},
		{Name: "transferedAmount", Kind: FieldText, Text: string(d.TransferedAmount)},
		{Name: "isLayered", Kind: FieldText, Text: string(d.IsLayered)},
		{Name: "comment", Kind: FieldText, Text: string(d.Comment)},
		{Name: "stepNumber", Kind: FieldText, Text: string(d.StepNumber)},
	}
}

// ChemicalNameSet collects the normalized set of every name spelling across
// all entries of a chemical list.
func ChemicalNameSet(list []Chemical) map[string]bool {
	out := map[string]bool{}
	for _, c := range list {
		for _, name := range c.Names {
			if strings.TrimSpace(name) != "" {
				out[name] = true
			}
		}
	}
	return out
}

// ChemicalAmountSet collects the set of non-empty amounts across a list.
func ChemicalAmountSet(list []Chemical) map[string]bool {
	out := map[string]bool{}
	for _, c := range list {
		if strings.TrimSpace(string(c.Amount)) != "" {
			out[string(c.Amount)] = true
		}
	}
	return out
}
