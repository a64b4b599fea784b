package models

import (
	"encoding/json"
	"time"
)

// CalculationRecord is one saved calculation in a user's history.
type CalculationRecord struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Domain    string          `json:"domain"`
	RuleKey   string          `json:"ruleKey"`
	Request   json.RawMessage `json:"request"`
	Result    PenaltyResponse `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}
