package db

// Zone is one of the three buckets of a session summary.
type Zone struct {
	Bullets       []string `bson:"bullets"`
	Justification string   `bson:"justification"`
}

// SessionSummaryModel is created exactly once per completed session; the
// document id is the session id so repeated synthesis upserts in place.
type SessionSummaryModel struct {
	ID              string  `bson:"_id"` // session id
	WeakAreas       Zone    `bson:"weakAreas"`
	StrongAreas     Zone    `bson:"strongAreas"`
	GrowthPotential Zone    `bson:"growthPotential"`
	AccuracyPercent float64 `bson:"accuracyPercent"`
	TotalReward     int     `bson:"totalReward"`
	CreatedOn       int64   `bson:"createdOn"`
}

func (m SessionSummaryModel) Id() string { return m.ID }

func (m SessionSummaryModel) CollectionName() string { return "session_summaries" }
