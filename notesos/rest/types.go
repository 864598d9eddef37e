package rest

// Authentication types

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email            string         `json:"email"`
	Password         string         `json:"password"`
	FullName         string         `json:"full_name"`
	StudyPersonality map[string]any `json:"study_personality,omitempty"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the token pair returned after authentication.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         User   `json:"user"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// User is the authenticated user's profile.
type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	FullName         string         `json:"full_name"`
	AvatarURL        *string        `json:"avatar_url"`
	StudyPersonality map[string]any `json:"study_personality"`
}

// PersonalityUpdate adjusts how the study agent talks to the user.
type PersonalityUpdate struct {
	Tone             *string `json:"tone,omitempty"`
	EmojiUsage       *string `json:"emoji_usage,omitempty"`
	ExplanationStyle *string `json:"explanation_style,omitempty"`
}

// Course types

// Course summarizes one enrolled course.
type Course struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Semester    string `json:"semester,omitempty"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"member_count"`
	CreatedBy   string `json:"created_by"`
	JoinedAt    string `json:"joined_at,omitempty"`
	InviteCode  string `json:"invite_code,omitempty"`
}

// ListCoursesResponse wraps the enrolled course list.
type ListCoursesResponse struct {
	Courses []Course `json:"courses"`
}

// CreateCourseRequest is the request body for creating a course.
type CreateCourseRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Semester    string `json:"semester,omitempty"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"is_public"`
}

// JoinCourseRequest joins by search term, explicit id, or invite code.
type JoinCourseRequest struct {
	Search     string `json:"search,omitempty"`
	CourseID   string `json:"course_id,omitempty"`
	InviteCode string `json:"invite_code,omitempty"`
}

// Topic types

// Topic is one unit of a course syllabus.
type Topic struct {
	ID          string  `json:"id"`
	CourseID    string  `json:"course_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	WeekNumber  *int    `json:"week_number"`
	OrderIndex  int     `json:"order_index"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CreateTopicRequest is the request body for creating a topic.
type CreateTopicRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	WeekNumber  *int    `json:"week_number,omitempty"`
	OrderIndex  int     `json:"order_index"`
}

// UpdateTopicRequest carries partial topic updates; nil fields are untouched.
type UpdateTopicRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	WeekNumber  *int    `json:"week_number,omitempty"`
	OrderIndex  *int    `json:"order_index,omitempty"`
}

// Resource types

// ResourceFile is one uploaded page/file belonging to a resource.
type ResourceFile struct {
	ID            string   `json:"id"`
	FileURL       string   `json:"file_url"`
	FileName      *string  `json:"file_name"`
	FileOrder     int      `json:"file_order"`
	OCRConfidence *float64 `json:"ocr_confidence,omitempty"`
	OCRProvider   *string  `json:"ocr_provider,omitempty"`
}

// Resource is an uploaded or authored study artifact attached to a topic.
type Resource struct {
	ID            string         `json:"id"`
	TopicID       string         `json:"topic_id"`
	UploadedBy    string         `json:"uploaded_by"`
	UploaderName  string         `json:"uploader_name"`
	Title         *string        `json:"title"`
	Content       string         `json:"content"`
	ResourceType  string         `json:"resource_type"`
	FileURL       *string        `json:"file_url"`
	FileName      *string        `json:"file_name"`
	SourceType    string         `json:"source_type"`
	IsProcessed   bool           `json:"is_processed"`
	OCRCleaned    bool           `json:"ocr_cleaned"`
	IsVerified    bool           `json:"is_verified"`
	OCRConfidence *float64       `json:"ocr_confidence,omitempty"`
	OCRProvider   *string        `json:"ocr_provider,omitempty"`
	Files         []ResourceFile `json:"files"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

// ListResourcesResponse is one page of a topic's resources.
type ListResourcesResponse struct {
	Resources []Resource `json:"resources"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
}

// CreateTextResourceRequest authors a text note under a topic.
type CreateTextResourceRequest struct {
	Title   *string `json:"title,omitempty"`
	Content string  `json:"content"`
}

// UpdateResourceRequest carries partial resource edits.
type UpdateResourceRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// AI feature types

// FactCheck is one verified claim extracted from a resource.
type FactCheck struct {
	ID                 string           `json:"id"`
	ClaimText          string           `json:"claim_text"`
	VerificationStatus string           `json:"verification_status"`
	ConfidenceScore    float64          `json:"confidence_score"`
	AIExplanation      string           `json:"ai_explanation"`
	Sources            []map[string]any `json:"sources"`
	CreatedAt          string           `json:"created_at"`
}

// Research is AI-generated pre-class research for a topic.
type Research struct {
	ID              string           `json:"id"`
	TopicID         string           `json:"topic_id"`
	ResearchContent string           `json:"research_content"`
	Sources         []map[string]any `json:"sources"`
	KeyConcepts     map[string]any   `json:"key_concepts"`
	GeneratedAt     string           `json:"generated_at"`
}

// Progress types

// StartSessionRequest opens a timed study session on a topic.
type StartSessionRequest struct {
	TopicID     string `json:"topic_id"`
	SessionType string `json:"session_type"` // reading, quiz, practice
}

// StartSessionResponse acknowledges a started session.
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	StartedAt string `json:"started_at"`
}

// EndSessionResponse reports the closed session's duration.
type EndSessionResponse struct {
	SessionID       string `json:"session_id"`
	DurationSeconds int    `json:"duration_seconds"`
}

// TopicProgress is per-topic mastery tracking.
type TopicProgress struct {
	TopicID        string   `json:"topic_id"`
	MasteryLevel   float64  `json:"mastery_level"`
	TotalStudyTime int      `json:"total_study_time"`
	AvgScore       *float64 `json:"avg_score"`
	StreakDays     int      `json:"streak_days"`
	LastActivity   string   `json:"last_activity"`
}

// CourseProgress aggregates mastery over a course.
type CourseProgress struct {
	CourseID       string  `json:"course_id"`
	OverallMastery float64 `json:"overall_mastery"`
	TotalStudyTime int     `json:"total_study_time"`
	CurrentStreak  int     `json:"current_streak"`
	TopicsCount    int     `json:"topics_count"`
	TopicsMastered int     `json:"topics_mastered"`
}

// Streak reports the user's study streak for a course.
type Streak struct {
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	LastActivity  string `json:"last_activity"`
}

// Recommendation suggests what to study next.
type Recommendation struct {
	TopicID  string `json:"topic_id"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"` // high, medium, low
	Type     string `json:"type"`     // weak_topic, inactive_topic, next_topic
}

// Class invite types

// CreateClassInviteRequest creates a shareable class invite.
type CreateClassInviteRequest struct {
	Name *string `json:"name,omitempty"`
}

// ClassInvite is a shareable enrollment code covering all of a user's courses.
type ClassInvite struct {
	ID             string  `json:"id"`
	Name           *string `json:"name"`
	InviteCode     string  `json:"invite_code"`
	IsActive       bool    `json:"is_active"`
	ClassmateCount int     `json:"classmate_count"`
	CreatedAt      string  `json:"created_at"`
}

// Classmate is one member enrolled through a class invite.
type Classmate struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	JoinedAt  string `json:"joined_at"`
}

// JoinClassRequest joins a class by invite code.
type JoinClassRequest struct {
	InviteCode string `json:"invite_code"`
}

// JoinClassResponse summarizes what the join enrolled the user into.
type JoinClassResponse struct {
	ClassName     *string  `json:"class_name"`
	OwnerName     string   `json:"owner_name"`
	CoursesJoined []string `json:"courses_joined"`
	CourseCount   int      `json:"course_count"`
}

// Health is the backend's health probe response.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// ErrorResponse is the backend's error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
