package progress

import (
	"hadithhub/models"
)

// Definition is the engine's view of one catalog entry.
type Definition struct {
	ID        uint
	Slug      string
	Category  string
	Tier      int
	XPReward  int
	Criterion Criterion
}

func DefinitionFromModel(a models.Achievement) Definition {
	return Definition{
		ID:        a.ID,
		Slug:      a.Slug,
		Category:  a.Category,
		Tier:      a.Tier,
		XPReward:  a.XPReward,
		Criterion: ParseCriterion(a.Criteria),
	}
}

// Evaluation is the outcome of checking a catalog against one snapshot.
type Evaluation struct {
	Satisfied []Definition
	// Unknown holds definitions whose criterion could not be understood.
	Unknown []Definition
}

// Evaluate returns the not-yet-earned definitions the snapshot satisfies.
// Earned definitions are skipped before their criterion is looked at.
func Evaluate(defs []Definition, snap *Snapshot, earned map[uint]bool) Evaluation {
	var out Evaluation
	for _, def := range defs {
		if earned[def.ID] {
			continue
		}
		if def.Criterion == nil {
			out.Unknown = append(out.Unknown, def)
			continue
		}
		if _, ok := def.Criterion.(Unknown); ok {
			out.Unknown = append(out.Unknown, def)
			continue
		}
		if def.Criterion.satisfiedBy(snap) {
			out.Satisfied = append(out.Satisfied, def)
		}
	}
	return out
}
