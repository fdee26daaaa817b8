package dda

// Look-back distances used by type scoring, counted from the latest record.
const (
	SkillLookBack  = 3
	LaunchLookBack = 2
)

// DefaultSkillThresholds are the average distances that promote a player to
// Beginner, Intermediate, Advanced and Expert.
var DefaultSkillThresholds = []float64{600, 1200, 2500, 4000}

// ClassifySkill maps an average distance onto a skill level. Each threshold
// starts a half-open bucket and the top bucket is unbounded.
func ClassifySkill(avg float64, thresholds []float64) SkillLevel {
	level := Noob
	for _, th := range thresholds {
		if avg < th {
			break
		}
		level++
	}
	if level > Expert {
		level = Expert
	}
	return level
}

// AverageDistance returns the mean distance of the records, or 0 if empty.
func AverageDistance(records []RunRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Distance
	}
	return sum / float64(len(records))
}

// TypeScore accumulates the player type score for a history.
// Terms whose look-back sample is missing are skipped.
func TypeScore(records []RunRecord, thresholds []float64) int {
	n := len(records)
	if n == 0 {
		return 0
	}
	last := records[n-1]
	avg := AverageDistance(records)
	score := 0

	switch last.Type {
	case EasyFun:
		score -= 30
	case HardFun:
		score += 30
	}

	lastSkill := last.Skill
	if lastSkill == SkillNone {
		lastSkill = ClassifySkill(avg, thresholds)
	}
	score += 10 * int(lastSkill-Intermediate)

	if i := n - 1 - SkillLookBack; i >= 0 && records[i].Skill != SkillNone {
		score += 5 * int(records[i].Skill-Intermediate)
	}

	if avg >= intermediateThreshold(thresholds) {
		score += 10
	} else {
		score -= 10
	}

	if i := n - 1 - LaunchLookBack; i >= 0 {
		if records[i].LaunchCount == last.LaunchCount {
			score += 20
		} else {
			score -= 20
		}
	}

	return score
}

// ClassifyType turns the type score into a player type. Ties favor EasyFun.
func ClassifyType(records []RunRecord, thresholds []float64) PlayerType {
	if TypeScore(records, thresholds) <= 0 {
		return EasyFun
	}
	return HardFun
}

func intermediateThreshold(thresholds []float64) float64 {
	// thresholds[0] promotes to Beginner.
	idx := int(Intermediate) - 1
	if idx < len(thresholds) {
		return thresholds[idx]
	}
	return DefaultSkillThresholds[idx]
}

// TypeFactor returns the multiplier for a player type.
func TypeFactor(t PlayerType) float64 {
	switch t {
	case EasyFun:
		return 0.8
	case HardFun:
		return 1.2
	default:
		return 1.0
	}
}

// SkillFactor returns the multiplier for a skill level.
func SkillFactor(s SkillLevel) float64 {
	switch s {
	case Noob:
		return 1.1
	case Beginner:
		return 1.2
	case Intermediate:
		return 1.3
	case Advanced:
		return 1.4
	case Expert:
		return 1.5
	default:
		return 1.0
	}
}

// Amplify widens a product above 1 and narrows one at or below 1.
func Amplify(product, amp float64) float64 {
	if product > 1 {
		return product * amp
	}
	return product / amp
}
