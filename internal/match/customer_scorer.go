package match

import "math"

// Customer scoring weights. They sum to 1.0 before the x100 scaling.
const (
	customerPhoneWeight = 0.5
	customerNameWeight  = 0.4
	customerEmailWeight = 0.1
)

// nameSimilarReasonThreshold is the coarse cutoff for the 名前類似 reason.
const nameSimilarReasonThreshold = 0.8

// CustomerScorer scores a candidate customer against a subject.
type CustomerScorer struct{}

// Score returns a weighted confidence score in [0, 100]. A sub-signal whose
// input is missing on either side contributes 0 without renormalizing the
// remaining weights, so scores stay comparable within the same
// signal-availability class.
func (s *CustomerScorer) Score(subject, candidate Customer) int {
	var score float64

	subjectPhone := NormalizePhone(subject.Phone)
	candidatePhone := NormalizePhone(candidate.Phone)
	if subjectPhone != "" && subjectPhone == candidatePhone {
		score += customerPhoneWeight
	}

	// The name term takes the better of real-name and kana similarity so a
	// record pair filed once in kanji and once in kana still matches.
	nameSim := Similarity(subject.Name, candidate.Name)
	if kanaSim := Similarity(subject.NameKana, candidate.NameKana); kanaSim > nameSim {
		nameSim = kanaSim
	}
	score += customerNameWeight * nameSim

	subjectEmail := NormalizeText(subject.Email)
	candidateEmail := NormalizeText(candidate.Email)
	if subjectEmail != "" && subjectEmail == candidateEmail {
		score += customerEmailWeight
	}

	return clampScore(score * 100)
}

// Reasons returns the human-readable match reasons for a pair. The rules are
// deliberately coarser than the numeric weighting so they stay stable and
// explainable as the weights get tuned.
func (s *CustomerScorer) Reasons(subject, candidate Customer) []string {
	var reasons []string

	subjectPhone := NormalizePhone(subject.Phone)
	if subjectPhone != "" && subjectPhone == NormalizePhone(candidate.Phone) {
		reasons = append(reasons, "電話番号一致")
	}

	subjectName := NormalizeName(subject.Name)
	candidateName := NormalizeName(candidate.Name)
	switch {
	case subjectName != "" && subjectName == candidateName:
		reasons = append(reasons, "名前一致")
	case Similarity(subject.Name, candidate.Name) >= nameSimilarReasonThreshold:
		reasons = append(reasons, "名前類似")
	}

	subjectEmail := NormalizeText(subject.Email)
	if subjectEmail != "" && subjectEmail == NormalizeText(candidate.Email) {
		reasons = append(reasons, "メールアドレス一致")
	}

	return reasons
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(math.Round(score))
}
