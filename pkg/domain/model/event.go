package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
)

// EventKindPush is the object_kind of a GitLab push hook
const EventKindPush = "push"

// PushEvent represents a push hook payload sent by GitLab.
//
// Only Ref, Project.Name and Commits are required. Every other field is kept
// for completeness and decoded leniently: an absent, null or wrongly typed
// optional field leaves the zero value instead of failing the whole payload.
type PushEvent struct {
	ObjectKind        string     `json:"object_kind"`
	EventName         string     `json:"event_name"`
	Before            string     `json:"before"`
	After             string     `json:"after"`
	Ref               string     `json:"ref"`
	CheckoutSHA       string     `json:"checkout_sha"`
	Message           *string    `json:"message,omitempty"`
	UserID            int64      `json:"user_id"`
	UserName          string     `json:"user_name"`
	UserUsername      string     `json:"user_username"`
	UserEmail         string     `json:"user_email"`
	UserAvatar        string     `json:"user_avatar"`
	ProjectID         int64      `json:"project_id"`
	Project           Project    `json:"project"`
	Repository        Repository `json:"repository"`
	Commits           []Commit   `json:"commits"`
	TotalCommitsCount int        `json:"total_commits_count"`
}

// Project is the project section of a push hook
type Project struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	WebURL            string  `json:"web_url"`
	AvatarURL         *string `json:"avatar_url,omitempty"`
	GitSSHURL         string  `json:"git_ssh_url"`
	GitHTTPURL        string  `json:"git_http_url"`
	Namespace         string  `json:"namespace"`
	VisibilityLevel   int     `json:"visibility_level"`
	PathWithNamespace string  `json:"path_with_namespace"`
	DefaultBranch     string  `json:"default_branch"`
	CIConfigPath      *string `json:"ci_config_path,omitempty"`
	Homepage          string  `json:"homepage"`
	URL               string  `json:"url"`
	SSHURL            string  `json:"ssh_url"`
	HTTPURL           string  `json:"http_url"`
}

// Repository is the legacy repository section of a push hook
type Repository struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Homepage    string `json:"homepage"`
}

// Commit is one entry of the commits list
type Commit struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
}

// ParsePushEvent decodes a push hook body. Structural problems, including a
// null commit entry, are tagged with types.ErrTagBadRequest. An empty commit
// list is structurally valid.
func ParsePushEvent(data []byte) (*PushEvent, error) {
	var event PushEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, goerr.Wrap(err, "invalid push event payload", goerr.T(types.ErrTagBadRequest))
	}
	return &event, nil
}

// BranchName returns the final "/"-separated segment of Ref,
// e.g. "login" for "refs/heads/feature/login".
func (x *PushEvent) BranchName() string {
	return x.Ref[strings.LastIndex(x.Ref, "/")+1:]
}

// FirstCommit returns the first commit of the push, or false if there is none.
func (x *PushEvent) FirstCommit() (Commit, bool) {
	if len(x.Commits) == 0 {
		return Commit{}, false
	}
	return x.Commits[0], true
}

// UnmarshalJSON decodes required fields strictly and optional fields leniently.
func (x *PushEvent) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return goerr.Wrap(err, "push event must be a JSON object")
	}

	var event PushEvent
	if err := decodeRequired(fields, "ref", &event.Ref); err != nil {
		return err
	}
	if err := decodeRequired(fields, "project", &event.Project); err != nil {
		return err
	}
	var commits []*Commit
	if err := decodeRequired(fields, "commits", &commits); err != nil {
		return err
	}
	event.Commits = make([]Commit, 0, len(commits))
	for i, commit := range commits {
		if commit == nil {
			return goerr.New("commit entry is null", goerr.V("index", i))
		}
		event.Commits = append(event.Commits, *commit)
	}

	decodeOptional(fields, "object_kind", &event.ObjectKind)
	decodeOptional(fields, "event_name", &event.EventName)
	decodeOptional(fields, "before", &event.Before)
	decodeOptional(fields, "after", &event.After)
	decodeOptional(fields, "checkout_sha", &event.CheckoutSHA)
	decodeOptional(fields, "message", &event.Message)
	decodeOptional(fields, "user_id", &event.UserID)
	decodeOptional(fields, "user_name", &event.UserName)
	decodeOptional(fields, "user_username", &event.UserUsername)
	decodeOptional(fields, "user_email", &event.UserEmail)
	decodeOptional(fields, "user_avatar", &event.UserAvatar)
	decodeOptional(fields, "project_id", &event.ProjectID)
	decodeOptional(fields, "repository", &event.Repository)
	decodeOptional(fields, "total_commits_count", &event.TotalCommitsCount)

	*x = event
	return nil
}

// UnmarshalJSON requires a string name; the descriptive fields are optional.
func (x *Project) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return goerr.Wrap(err, "project must be a JSON object")
	}

	var project Project
	if err := decodeRequired(fields, "name", &project.Name); err != nil {
		return goerr.Wrap(err, "invalid project")
	}

	decodeOptional(fields, "id", &project.ID)
	decodeOptional(fields, "description", &project.Description)
	decodeOptional(fields, "web_url", &project.WebURL)
	decodeOptional(fields, "avatar_url", &project.AvatarURL)
	decodeOptional(fields, "git_ssh_url", &project.GitSSHURL)
	decodeOptional(fields, "git_http_url", &project.GitHTTPURL)
	decodeOptional(fields, "namespace", &project.Namespace)
	decodeOptional(fields, "visibility_level", &project.VisibilityLevel)
	decodeOptional(fields, "path_with_namespace", &project.PathWithNamespace)
	decodeOptional(fields, "default_branch", &project.DefaultBranch)
	decodeOptional(fields, "ci_config_path", &project.CIConfigPath)
	decodeOptional(fields, "homepage", &project.Homepage)
	decodeOptional(fields, "url", &project.URL)
	decodeOptional(fields, "ssh_url", &project.SSHURL)
	decodeOptional(fields, "http_url", &project.HTTPURL)

	*x = project
	return nil
}

var jsonNull = []byte("null")

func decodeRequired(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return goerr.New("required field is missing", goerr.V("field", key))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return goerr.Wrap(err, "required field has wrong type", goerr.V("field", key))
	}
	return nil
}

func decodeOptional(fields map[string]json.RawMessage, key string, dst any) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	// A wrongly typed optional field keeps its zero value.
	_ = json.Unmarshal(raw, dst)
}
