package types

// RunReport summarizes one notifier pass for logging and CLI output.
type RunReport struct {
	RunID             string `json:"run_id"`
	ReposChecked      int    `json:"repos_checked"`
	NewReleases       int    `json:"new_releases"`
	MessagesDelivered int    `json:"messages_delivered"`
	DeliveryFailures  int    `json:"delivery_failures"`
	StateUpdated      bool   `json:"state_updated"`
}
