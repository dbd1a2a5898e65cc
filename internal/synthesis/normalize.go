package synthesis

import "github.com/theworldavatar/mop-synthesis-eval/internal/normalize"

// NormalizeDocument canonicalizes every scalar of a decoded document in
// place. Comparisons never mix normalized and raw values, so this must run
// on both ground truth and prediction before any scoring.
func NormalizeDocument(doc *Document, n *normalize.Normalizer) {
	w := walker{n: n}
	for ri := range doc.Synthesis {
		rec := &doc.Synthesis[ri]
		for i, name := range rec.ProductNames {
			rec.ProductNames[i] = n.String(name)
		}
		w.text(&rec.ProductCCDCNumber)
		for si := range rec.Steps {
			w.step(&rec.Steps[si])
		}
	}
}

type walker struct {
	n *normalize.Normalizer
}

func (w walker) text(t *Text) { *t = Text(w.n.String(string(*t))) }
func (w walker) ph(t *Text)   { *t = Text(w.n.PH(string(*t))) }

func (w walker) chems(list []Chemical) {
	for i := range list {
		for j, name := range list[i].Names {
			list[i].Names[j] = w.n.ChemicalName(name)
		}
		list[i].Amount = Text(w.n.ChemicalAmount(string(list[i].Amount)))
	}
}

func (w walker) step(s *Step) {
	switch d := s.Data.(type) {
	case *AddData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.chems(d.AddedChemical)
		w.text(&d.Stir)
		w.text(&d.IsLayered)
		w.text(&d.Atmosphere)
		w.text(&d.Duration)
		w.ph(&d.TargetPH)
	case *HeatChillData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.text(&d.UsedDevice)
		w.text(&d.TargetTemperature)
		w.text(&d.HeatingCoolingRate)
		w.text(&d.Duration)
		w.text(&d.UnderVacuum)
		w.text(&d.SealedVessel)
		w.text(&d.Stir)
		w.text(&d.Atmosphere)
	case *FilterData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.chems(d.WashingSolvent)
		w.text(&d.VacuumFiltration)
		w.text(&d.NumberOfFiltrations)
		w.text(&d.Atmosphere)
	case *SonicateData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.text(&d.Duration)
		w.text(&d.Temperature)
	case *StirData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.text(&d.Duration)
		w.text(&d.Temperature)
		w.text(&d.Atmosphere)
	case *CrystallizationData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.text(&d.TargetTemperature)
		w.text(&d.Duration)
	case *DryData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.text(&d.Duration)
		w.text(&d.Pressure)
		w.text(&d.Temperature)
		w.chems(d.DryingAgent)
		w.text(&d.Atmosphere)
	case *EvaporateData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.text(&d.Pressure)
		w.text(&d.Temperature)
		w.text(&d.Duration)
		w.text(&d.RotaryEvaporator)
		w.chems(d.RemovedSpecies)
	case *DissolveData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.chems(d.Solvent)
		w.text(&d.Duration)
	case *SeparateData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.text(&d.SeparationType)
		w.chems(d.Solvent)
	case *TransferData:
		w.text(&d.UsedVesselName)
		w.text(&d.UsedVesselType)
		w.text(&d.TargetVesselName)
		w.text(&d.TargetVesselType)
		w.text(&d.TransferedAmount)
		w.text(&d.IsLayered)
	}
}
