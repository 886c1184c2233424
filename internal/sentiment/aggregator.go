package sentiment

import "btc-barometer/internal/domain"

// Aggregate folds per-article scores into one signal by confidence-weighted
// vote. The winning label's confidence is the mean confidence of the articles
// that voted for it, discounted by the fraction of articles that agreed.
// A weight tie resolves to neutral.
func Aggregate(scored []domain.ScoredArticle) domain.AggregateSentiment {
	if len(scored) == 0 {
		return domain.AggregateSentiment{
			OverallLabel:     domain.SentimentNeutral,
			ConfidenceScore:  0,
			ArticlesAnalyzed: 0,
		}
	}

	weights := map[domain.SentimentLabel]float64{}
	counts := map[domain.SentimentLabel]int{}
	confSums := map[domain.SentimentLabel]float64{}
	for _, s := range scored {
		weights[s.Score.Label] += s.Score.Confidence
		counts[s.Score.Label]++
		confSums[s.Score.Label] += s.Score.Confidence
	}

	winner := domain.SentimentNeutral
	best := -1.0
	tied := false
	for _, label := range []domain.SentimentLabel{domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral} {
		w, ok := weights[label]
		if !ok {
			continue
		}
		switch {
		case w > best:
			winner, best, tied = label, w, false
		case w == best:
			tied = true
		}
	}
	if tied {
		winner = domain.SentimentNeutral
	}

	var confidence float64
	if n := counts[winner]; n > 0 {
		meanConf := confSums[winner] / float64(n)
		agreeing := float64(n) / float64(len(scored))
		confidence = meanConf * agreeing
	}

	return domain.AggregateSentiment{
		OverallLabel:     winner,
		ConfidenceScore:  clamp01(confidence),
		ArticlesAnalyzed: len(scored),
	}
}
