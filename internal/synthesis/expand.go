package synthesis

// ExpandAddSteps flattens every Add step that bundles more than one chemical
// into one Add step per chemical, preserving the other fields and the
// relative position. Ground truth and predictions bundle chemicals
// differently, so both sides must be expanded before alignment.
func ExpandAddSteps(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		add, ok := s.Data.(*AddData)
		if !ok || s.Type != StepAdd || len(add.AddedChemical) <= 1 {
			out = append(out, s)
			continue
		}
		for _, chem := range add.AddedChemical {
			single := *add
			single.AddedChemical = []Chemical{chem}
			out = append(out, Step{Type: StepAdd, Data: &single})
		}
	}
	return out
}
