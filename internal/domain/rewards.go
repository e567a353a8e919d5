package domain

// Task is one claimable entry in the fixed social-task catalog.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
	Action      string `json:"action"`
	Link        string `json:"link"`
}

// taskCatalog is the fixed, ordered list of claimable tasks. IDs double as
// the on-ledger claim keys, so they must never be renamed.
var taskCatalog = []Task{
	{
		ID:          "twitter_follow",
		Title:       "Follow on Twitter",
		Description: "Follow our official Twitter account",
		Reward:      50,
		Action:      "Follow @OxVentura",
		Link:        "https://x.com/OxVentura",
	},
	{
		ID:          "twitter_retweet",
		Title:       "Retweet Launch Post",
		Description: "Retweet our launch announcement",
		Reward:      30,
		Action:      "Retweet",
		Link:        "https://x.com/OxVentura/status/1989423714736255346",
	},
	{
		ID:          "twitter_comment",
		Title:       "Comment on Post",
		Description: "Leave a comment on our launch post",
		Reward:      40,
		Action:      "Comment",
		Link:        "https://x.com/OxVentura/status/1989423714736255346",
	},
	{
		ID:          "twitter_tag",
		Title:       "Tag 3 Friends",
		Description: "Tweet about Daily Wish and tag 3 friends",
		Reward:      100,
		Action:      "Tweet",
		Link:        "https://twitter.com/intent/tweet?text=Just%20minted%20my%20daily%20wish%20on%20%40OxVentura%20%F0%9F%92%AB%20%0A%0AMint%20yours%20at%20dailywishonarc.xyz",
	},
	{
		ID:          "twitter_community",
		Title:       "Join X Community",
		Description: "Join our X community",
		Reward:      40,
		Action:      "Join Community",
		Link:        "https://x.com/i/communities/1990113211111125196",
	},
	{
		ID:          "telegram_join",
		Title:       "Join Telegram",
		Description: "Join our Telegram community",
		Reward:      40,
		Action:      "Join Group",
		Link:        "https://t.me/OxVentura",
	},
}

// TaskCatalog returns a copy of the fixed task list.
func TaskCatalog() []Task {
	out := make([]Task, len(taskCatalog))
	copy(out, taskCatalog)
	return out
}

func TaskByID(id string) (Task, bool) {
	for _, t := range taskCatalog {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// TotalCatalogReward is the sum every task pays when all are completed.
func TotalCatalogReward() int64 {
	var sum int64
	for _, t := range taskCatalog {
		sum += t.Reward
	}
	return sum
}

// TaskStatus pairs a catalog task with its per-address progress.
type TaskStatus struct {
	Task
	ActionDone bool `json:"action_done"`
	Completed  bool `json:"completed"`
}

// ClaimLedgerEntry is the locally persisted claim record for one address.
// CompletedTasks only grows and TotalEarned only increases.
type ClaimLedgerEntry struct {
	CompletedTasks []string `json:"completed_tasks"`
	TotalEarned    int64    `json:"total_earned"`
}

func (e ClaimLedgerEntry) Completed(taskID string) bool {
	for _, id := range e.CompletedTasks {
		if id == taskID {
			return true
		}
	}
	return false
}

// MarkCompleted appends the task id if absent. It never removes entries.
func (e *ClaimLedgerEntry) MarkCompleted(taskID string) {
	if !e.Completed(taskID) {
		e.CompletedTasks = append(e.CompletedTasks, taskID)
	}
}

type ClaimMode string

const (
	ClaimOnLedger  ClaimMode = "on_ledger"
	ClaimLocalOnly ClaimMode = "local_only"
)

type ClaimResult struct {
	TaskID           string    `json:"task_id"`
	Mode             ClaimMode `json:"mode"`
	TxHash           string    `json:"tx_hash,omitempty"`
	Reward           int64     `json:"reward"`
	TotalEarned      int64     `json:"total_earned"`
	AlreadyCompleted bool      `json:"already_completed,omitempty"`
	Reconciled       bool      `json:"reconciled,omitempty"`
}
