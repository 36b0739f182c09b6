package usecase_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
	"github.com/m-mizutani/pushgram/pkg/usecase"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name  string
		event *model.PushEvent
		want  string
	}{
		{
			name: "Uses first commit and last ref segment",
			event: newPushEvent(
				model.Commit{ID: "1", Message: "fix auth", URL: "https://x/commit/1"},
				model.Commit{ID: "2", Message: "later", URL: "https://x/commit/2"},
			),
			want: "backend : login - fix auth - https://x/commit/1",
		},
		{
			name: "Plain branch",
			event: &model.PushEvent{
				Ref:     "refs/heads/main",
				Project: model.Project{Name: "api"},
				Commits: []model.Commit{{Message: "init", URL: "https://x/commit/0"}},
			},
			want: "api : main - init - https://x/commit/0",
		},
		{
			name: "Multi-line commit message is kept as is",
			event: &model.PushEvent{
				Ref:     "refs/heads/dev",
				Project: model.Project{Name: "web"},
				Commits: []model.Commit{{Message: "title\n\nbody", URL: "u"}},
			},
			want: "web : dev - title\n\nbody - u",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := usecase.Compose(tt.event)
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
		})
	}
}

func TestCompose_NoCommits(t *testing.T) {
	for _, event := range []*model.PushEvent{newPushEvent(), nil} {
		got, err := usecase.Compose(event)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagUnprocessableEvent))
		gt.Equal(t, got, "")
	}
}

func TestCompose_BlankFirstCommit(t *testing.T) {
	tests := []struct {
		name   string
		commit model.Commit
	}{
		{name: "No message", commit: model.Commit{ID: "1", URL: "https://x/commit/1"}},
		{name: "No url", commit: model.Commit{ID: "1", Message: "fix auth"}},
		{name: "Zero commit", commit: model.Commit{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := usecase.Compose(newPushEvent(tt.commit))
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, types.ErrTagUnprocessableEvent))
			gt.Equal(t, got, "")
		})
	}
}
