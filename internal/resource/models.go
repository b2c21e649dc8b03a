package resource

type Resource struct {
	ID          string `json:"id"`
	QuizID      string `json:"quizId"` // passing this quiz unlocks the resource
	Title       string `json:"title"`
	Description string `json:"description"`
	FileKey     string `json:"fileKey"`
	FileName    string `json:"fileName"`
	FileSize    string `json:"fileSize"` // display string, e.g. "2.4 MB"
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// ListItem is the user-facing listing row; FileKey stays server-side.
type ListItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	FileName     string `json:"fileName"`
	FileSize     string `json:"fileSize"`
	UpdatedAt    int64  `json:"updatedAt"`
	QuizTitle    string `json:"quizTitle"`
	QuizCategory string `json:"quizCategory"`
	IsUnlocked   bool   `json:"isUnlocked"`
}

type DownloadGrant struct {
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
}

type Download struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	ResourceID   string `json:"resourceId"`
	DownloadedAt int64  `json:"downloadedAt"`
}

type ResourceStat struct {
	ResourceID    string `json:"resourceId"`
	Title         string `json:"title"`
	DownloadCount int    `json:"downloadCount"`
}

type DownloadStats struct {
	TotalDownloads int            `json:"totalDownloads"`
	ResourceStats  []ResourceStat `json:"resourceStats"`
}
