package usecase

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
)

// Compose builds the notification text of a push event:
//
//	{project} : {branch} - {first commit message} - {first commit url}
//
// A push without commits, or whose first commit lacks a message or url, cannot
// be summarized and is reported as types.ErrTagUnprocessableEvent.
func Compose(event *model.PushEvent) (string, error) {
	if event == nil {
		return "", goerr.New("event is nil", goerr.T(types.ErrTagUnprocessableEvent))
	}

	commit, ok := event.FirstCommit()
	if !ok {
		return "", goerr.New("push event has no commits",
			goerr.V("object_kind", event.ObjectKind),
			goerr.V("ref", event.Ref),
			goerr.T(types.ErrTagUnprocessableEvent),
		)
	}

	if commit.Message == "" || commit.URL == "" {
		return "", goerr.New("first commit has no message or url",
			goerr.V("object_kind", event.ObjectKind),
			goerr.V("commit_id", commit.ID),
			goerr.T(types.ErrTagUnprocessableEvent),
		)
	}

	return fmt.Sprintf("%s : %s - %s - %s",
		event.Project.Name,
		event.BranchName(),
		commit.Message,
		commit.URL,
	), nil
}
