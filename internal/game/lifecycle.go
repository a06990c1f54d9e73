package game

// AdvanceStage applies one turn's development delta to a product stage and
// returns the resulting stage and progress. Pure: all randomness lives in
// the oracle's choice of delta.
//
// A product transitions when accumulated progress reaches 100. Progress
// resets to 0 on each transition except RELEASE -> GROWTH, which restarts
// at 50 to carry launch momentum. GROWTH and MATURE never transition; their
// progress pegs at 100.
func AdvanceStage(stage ProductStage, progress, delta int) (ProductStage, int) {
	next := progress + delta
	if next < 100 {
		if next < 0 {
			next = 0
		}
		return stage, next
	}
	switch stage {
	case StageConcept:
		return StageMVP, 0
	case StageMVP:
		return StageAlpha, 0
	case StageAlpha:
		return StageRelease, 0
	case StageRelease:
		return StageGrowth, 50
	default:
		return stage, 100
	}
}

// StageRank orders product stages along the lifecycle; later stages rank
// higher. Used to check the never-regress property.
func StageRank(stage ProductStage) int {
	return stageOrder[stage]
}
