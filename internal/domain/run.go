package domain

// AnalysisRun is the persisted summary of one completed analysis.
type AnalysisRun struct {
	RunID                string
	GeneratedAt          int64 // Unix seconds
	Digest               string
	TradeCount           int
	DroppedRecords       int
	AnomalousPrices      int
	FlaggedWallets       int
	ConfirmedPumps       int
	CoordinatedIntervals int
	WhaleEntries         int
	TotalTradeValue      float64
}
