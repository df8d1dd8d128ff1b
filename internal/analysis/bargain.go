package analysis

import "precinctpulse/internal/models"

// BargainZScoreThreshold is the fixed cutoff below which an under-median
// unit price is flagged as a bargain. It is never re-derived per
// dataset.
const BargainZScoreThreshold = -0.8

// BargainFlag is the per-record outcome of bargain detection, aligned
// index-for-index with the dataset's records.
type BargainFlag struct {
	UnitPrice float64
	ZScore    float64
	IsBargain bool
}

// DetectBargains flags records whose unit price sits strictly below the
// non-grey median AND whose z-score sits strictly below the threshold.
// Grey-structure records receive a z-score for reporting but can never
// be flagged. A record exactly at the median or exactly at the
// threshold is not a bargain.
func DetectBargains(ds *models.PrecinctDataset, baseline models.UnitPriceStats) ([]BargainFlag, models.BargainStats) {
	flags := make([]BargainFlag, len(ds.Records))

	var agg models.BargainStats
	var minFlagged, maxFlagged float64

	for i := range ds.Records {
		rec := &ds.Records[i]
		up := rec.UnitPrice()
		z := ZScore(up, baseline)

		flagged := up < baseline.Median &&
			z < BargainZScoreThreshold &&
			!rec.IsGreyStructure

		flags[i] = BargainFlag{UnitPrice: up, ZScore: z, IsBargain: flagged}

		if flagged {
			if agg.BargainCount == 0 || up < minFlagged {
				minFlagged = up
			}
			if agg.BargainCount == 0 || up > maxFlagged {
				maxFlagged = up
			}
			agg.BargainCount++
		}
	}

	if baseline.Count > 0 {
		agg.BargainPct = float64(agg.BargainCount) / float64(baseline.Count) * 100
	}
	if agg.BargainCount > 0 {
		agg.MinBargainUnitPrice = &minFlagged
		agg.MaxBargainUnitPrice = &maxFlagged
	}

	return flags, agg
}
