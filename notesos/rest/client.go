// Package rest provides REST API access to the NotesOS backend. The client
// shares a TokenStore with the realtime client and transparently refreshes
// an expired access token: a 401 on an authenticated call triggers one
// refresh and one retry of the original request.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/notesos/sdk-go/notesos"
)

// Client provides REST API access to the NotesOS backend.
type Client struct {
	baseURL    string
	tokens     *notesos.TokenStore
	httpClient *http.Client
}

// APIError is a decoded backend error response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Detail)
}

// NewClient creates a new REST API client.
// baseURL is the backend's base address, e.g. "http://localhost:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  notesos.NewTokenStore(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient allows setting a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// Tokens exposes the shared token store, e.g. to hand to the realtime client.
func (c *Client) Tokens() *notesos.TokenStore {
	return c.tokens
}

// SetToken seeds the store with a known access token.
func (c *Client) SetToken(token string) {
	c.tokens.Set(token, "")
}

// Authentication endpoints

// Register creates a new account and stores the returned token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.postJSON(ctx, "/api/auth/register", req, &resp, false); err != nil {
		return nil, err
	}
	c.tokens.Set(resp.Token, resp.RefreshToken)
	return &resp, nil
}

// Login authenticates with email and password and stores the token pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.postJSON(ctx, "/api/auth/login", req, &resp, false); err != nil {
		return nil, err
	}
	c.tokens.Set(resp.Token, resp.RefreshToken)
	return &resp, nil
}

// Refresh exchanges the stored refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context) (*TokenResponse, error) {
	refresh, ok := c.tokens.RefreshToken()
	if !ok {
		return nil, notesos.NewError(notesos.ErrorUnauthorized, "no refresh token available")
	}
	var resp TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh", RefreshRequest{RefreshToken: refresh}, &resp, false, false); err != nil {
		return nil, err
	}
	c.tokens.Set(resp.Token, resp.RefreshToken)
	return &resp, nil
}

// Logout drops the stored token pair.
func (c *Client) Logout() {
	c.tokens.Clear()
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp User
	if err := c.getJSON(ctx, "/api/auth/me", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdatePersonality adjusts the study agent's tone for this user.
func (c *Client) UpdatePersonality(ctx context.Context, req PersonalityUpdate) error {
	return c.doJSON(ctx, http.MethodPatch, "/api/auth/me/personality", req, nil, true, true)
}

// Course endpoints

// ListCourses returns the courses the user is enrolled in.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var resp ListCoursesResponse
	if err := c.getJSON(ctx, "/api/courses", &resp); err != nil {
		return nil, err
	}
	return resp.Courses, nil
}

// CreateCourse creates a course owned by the current user.
func (c *Client) CreateCourse(ctx context.Context, req CreateCourseRequest) (*Course, error) {
	var resp Course
	if err := c.postJSON(ctx, "/api/courses", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JoinCourse enrolls by search term, course id, or invite code.
func (c *Client) JoinCourse(ctx context.Context, req JoinCourseRequest) (*Course, error) {
	var resp Course
	if err := c.postJSON(ctx, "/api/courses/join", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCourse fetches one course with its metadata.
func (c *Client) GetCourse(ctx context.Context, courseID string) (*Course, error) {
	var resp Course
	if err := c.getJSON(ctx, "/api/courses/"+url.PathEscape(courseID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Topic endpoints

// ListTopics returns a course's topics in syllabus order.
func (c *Client) ListTopics(ctx context.Context, courseID string) ([]Topic, error) {
	var resp []Topic
	if err := c.getJSON(ctx, "/api/courses/"+url.PathEscape(courseID)+"/topics", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateTopic adds a topic to a course.
func (c *Client) CreateTopic(ctx context.Context, courseID string, req CreateTopicRequest) (*Topic, error) {
	var resp Topic
	if err := c.postJSON(ctx, "/api/courses/"+url.PathEscape(courseID)+"/topics", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTopic fetches one topic.
func (c *Client) GetTopic(ctx context.Context, topicID string) (*Topic, error) {
	var resp Topic
	if err := c.getJSON(ctx, "/api/topics/"+url.PathEscape(topicID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTopic applies a partial update; nil fields are left unchanged.
func (c *Client) UpdateTopic(ctx context.Context, topicID string, req UpdateTopicRequest) (*Topic, error) {
	var resp Topic
	if err := c.doJSON(ctx, http.MethodPut, "/api/topics/"+url.PathEscape(topicID), req, &resp, true, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTopic removes a topic and its resources.
func (c *Client) DeleteTopic(ctx context.Context, topicID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/topics/"+url.PathEscape(topicID), nil, nil, true, true)
}

// Resource endpoints

// ListResources returns one page of a topic's resources.
// page starts at 1; pageSize 0 uses the server default.
func (c *Client) ListResources(ctx context.Context, topicID string, page, pageSize int) (*ListResourcesResponse, error) {
	path := "/api/topics/" + url.PathEscape(topicID) + "/resources"
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListResourcesResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateTextResource authors a text note under a topic.
func (c *Client) CreateTextResource(ctx context.Context, topicID string, req CreateTextResourceRequest) (*Resource, error) {
	var resp Resource
	if err := c.postJSON(ctx, "/api/topics/"+url.PathEscape(topicID)+"/resources/text", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadFile is one file included in a multipart resource upload.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// UploadOptions carries the optional form fields of a resource upload.
type UploadOptions struct {
	Title         *string
	IsHandwritten *bool
}

// UploadResources uploads files as resources under a topic. Images are
// grouped into one resource with multiple pages; PDFs and DOCX files become
// one resource each. OCR runs asynchronously; completion arrives as
// processing_status messages on the realtime channel.
func (c *Client) UploadResources(ctx context.Context, topicID string, opts UploadOptions, files ...UploadFile) ([]Resource, error) {
	if len(files) == 0 {
		return nil, notesos.NewError(notesos.ErrorValidation, "no files to upload")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("topic_id", topicID); err != nil {
		return nil, err
	}
	if opts.Title != nil {
		if err := w.WriteField("title", *opts.Title); err != nil {
			return nil, err
		}
	}
	if opts.IsHandwritten != nil {
		if err := w.WriteField("is_handwritten", strconv.FormatBool(*opts.IsHandwritten)); err != nil {
			return nil, err
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, fmt.Errorf("read upload %q: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	payload := buf.Bytes()
	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/resources/upload", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req, nil
	}

	var resp []Resource
	if err := c.do(ctx, build, &resp, true, true); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetResource fetches one resource with its files.
func (c *Client) GetResource(ctx context.Context, resourceID string) (*Resource, error) {
	var resp Resource
	if err := c.getJSON(ctx, "/api/resources/"+url.PathEscape(resourceID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateResource applies a partial edit to a resource.
func (c *Client) UpdateResource(ctx context.Context, resourceID string, req UpdateResourceRequest) (*Resource, error) {
	var resp Resource
	if err := c.doJSON(ctx, http.MethodPut, "/api/resources/"+url.PathEscape(resourceID), req, &resp, true, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteResource removes a resource.
func (c *Client) DeleteResource(ctx context.Context, resourceID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/resources/"+url.PathEscape(resourceID), nil, nil, true, true)
}

// ReprocessOCR re-runs OCR on an uploaded resource.
func (c *Client) ReprocessOCR(ctx context.Context, resourceID string) (*Resource, error) {
	var resp Resource
	if err := c.postJSON(ctx, "/api/resources/"+url.PathEscape(resourceID)+"/reprocess-ocr", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AI feature endpoints

// TriggerFactCheck queues an async fact-check job for a resource. The
// backend answers 202; completion arrives as a fact_check_complete message
// on the realtime channel.
func (c *Client) TriggerFactCheck(ctx context.Context, resourceID string) error {
	return c.postJSON(ctx, "/api/resources/"+url.PathEscape(resourceID)+"/fact-check", nil, nil, true)
}

// ListFactChecks returns completed fact-check results for a resource.
func (c *Client) ListFactChecks(ctx context.Context, resourceID string) ([]FactCheck, error) {
	var resp []FactCheck
	if err := c.getJSON(ctx, "/api/resources/"+url.PathEscape(resourceID)+"/fact-checks", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateResearch produces pre-class research for a topic.
func (c *Client) GenerateResearch(ctx context.Context, topicID string) (*Research, error) {
	var resp Research
	if err := c.postJSON(ctx, "/api/topics/"+url.PathEscape(topicID)+"/research", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetResearch returns previously generated research for a topic.
func (c *Client) GetResearch(ctx context.Context, topicID string) (*Research, error) {
	var resp Research
	if err := c.getJSON(ctx, "/api/topics/"+url.PathEscape(topicID)+"/research", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Progress endpoints

// StartSession opens a timed study session on a topic.
func (c *Client) StartSession(ctx context.Context, req StartSessionRequest) (*StartSessionResponse, error) {
	var resp StartSessionResponse
	if err := c.postJSON(ctx, "/api/progress/sessions/start", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EndSession closes a study session and returns its duration.
func (c *Client) EndSession(ctx context.Context, sessionID string) (*EndSessionResponse, error) {
	var resp EndSessionResponse
	if err := c.postJSON(ctx, "/api/progress/sessions/"+url.PathEscape(sessionID)+"/end", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CourseProgress returns aggregate mastery for a course.
func (c *Client) CourseProgress(ctx context.Context, courseID string) (*CourseProgress, error) {
	var resp CourseProgress
	if err := c.getJSON(ctx, "/api/progress/"+url.PathEscape(courseID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TopicsProgress returns per-topic mastery for a course.
func (c *Client) TopicsProgress(ctx context.Context, courseID string) ([]TopicProgress, error) {
	var resp []TopicProgress
	if err := c.getJSON(ctx, "/api/progress/"+url.PathEscape(courseID)+"/topics", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetStreak returns the user's study streak for a course.
func (c *Client) GetStreak(ctx context.Context, courseID string) (*Streak, error) {
	var resp Streak
	if err := c.getJSON(ctx, "/api/progress/"+url.PathEscape(courseID)+"/streak", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRecommendations returns suggested next topics for a course.
func (c *Client) GetRecommendations(ctx context.Context, courseID string) ([]Recommendation, error) {
	var resp []Recommendation
	if err := c.getJSON(ctx, "/api/progress/"+url.PathEscape(courseID)+"/recommendations", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Class invite endpoints

// CreateClassInvite creates a shareable invite covering all of the user's
// courses.
func (c *Client) CreateClassInvite(ctx context.Context, req CreateClassInviteRequest) (*ClassInvite, error) {
	var resp ClassInvite
	if err := c.postJSON(ctx, "/api/invites/global", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListClassInvites returns the invites the user has created.
func (c *Client) ListClassInvites(ctx context.Context) ([]ClassInvite, error) {
	var resp []ClassInvite
	if err := c.getJSON(ctx, "/api/invites/global", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListClassmates returns the members enrolled through an invite.
func (c *Client) ListClassmates(ctx context.Context, classID string) ([]Classmate, error) {
	var resp []Classmate
	if err := c.getJSON(ctx, "/api/invites/global/"+url.PathEscape(classID)+"/classmates", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// JoinClass enrolls in every course behind an invite code.
func (c *Client) JoinClass(ctx context.Context, req JoinClassRequest) (*JoinClassResponse, error) {
	var resp JoinClassResponse
	if err := c.postJSON(ctx, "/api/invites/global/join", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteClassInvite removes an invite permanently.
func (c *Client) DeleteClassInvite(ctx context.Context, classID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/invites/global/"+url.PathEscape(classID), nil, nil, true, true)
}

// DeactivateClassInvite disables an invite without removing its members.
func (c *Client) DeactivateClassInvite(ctx context.Context, classID string) (*ClassInvite, error) {
	var resp ClassInvite
	if err := c.doJSON(ctx, http.MethodPatch, "/api/invites/global/"+url.PathEscape(classID)+"/deactivate", nil, &resp, true, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health probes the backend.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var resp Health
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp, false, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Helper methods

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, dest, true, true)
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest any, requireAuth bool) error {
	return c.doJSON(ctx, http.MethodPost, path, body, dest, requireAuth, requireAuth)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any, requireAuth, allowRefresh bool) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = data
	}

	build := func() (*http.Request, error) {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}

	return c.do(ctx, build, dest, requireAuth, allowRefresh)
}

// do executes a rebuildable request. On 401 with a refresh token available
// it refreshes once and retries the original request with the new token.
func (c *Client) do(ctx context.Context, build func() (*http.Request, error), dest any, requireAuth, allowRefresh bool) error {
	err := c.doOnce(build, dest, requireAuth)
	if err == nil || !allowRefresh {
		return err
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}
	if _, ok := c.tokens.RefreshToken(); !ok {
		return err
	}
	if _, rerr := c.Refresh(ctx); rerr != nil {
		return err
	}
	return c.doOnce(build, dest, requireAuth)
}

func (c *Client) doOnce(build func() (*http.Request, error), dest any, requireAuth bool) error {
	req, err := build()
	if err != nil {
		return err
	}

	if requireAuth {
		if token, ok := c.tokens.AccessToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Detail != "" {
			return &APIError{Status: resp.StatusCode, Detail: errResp.Detail}
		}
		return &APIError{Status: resp.StatusCode, Detail: string(body)}
	}

	if dest != nil && len(body) > 0 {
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
