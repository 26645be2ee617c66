package match

// Customer is the attribute view of a customer used for scoring and
// candidate detection. It carries no persistence concerns.
type Customer struct {
	ID       int64
	TenantID int64
	Name     string
	NameKana string
	Phone    string
	Email    string
}

// Building is the attribute view of a building. Coordinates are optional.
type Building struct {
	ID       int64
	TenantID int64
	Name     string
	Address  string
	Lat      *float64
	Lng      *float64
}

// BuildingDistance pairs a building with its distance from a query point.
type BuildingDistance struct {
	Building       Building
	DistanceMeters float64
}

// Confidence tags which detection tier produced a candidate. It is coarser
// than the numeric score and is meant for operator display.
type Confidence string

const (
	ConfidenceHighest Confidence = "highest"
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
)

// CustomerCandidate is one ranked duplicate suggestion for a customer.
type CustomerCandidate struct {
	Customer   Customer
	Score      int
	Reasons    []string
	Confidence Confidence
}

// BuildingCandidate is one ranked duplicate suggestion for a building.
type BuildingCandidate struct {
	Building   Building
	Score      int
	Reasons    []string
	Confidence Confidence
}
