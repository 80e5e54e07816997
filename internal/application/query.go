package application

type ActionQueryFilter struct {
	Account string
	TxHash  string
	Limit   int
}

func NormalizeActionLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return 100
	}
	return limit
}
