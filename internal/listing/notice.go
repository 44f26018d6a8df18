package listing

import (
	"errors"

	"enku-backoffice/internal/remote"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a transient message (a toast). It is handed out once by View.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

const maxNotices = 20

type notices struct {
	pending []Notice
}

func (n *notices) add(level NoticeLevel, msg string) {
	n.pending = append(n.pending, Notice{Level: level, Message: msg})
	if len(n.pending) > maxNotices {
		n.pending = n.pending[len(n.pending)-maxNotices:]
	}
}

func (n *notices) drain() []Notice {
	out := n.pending
	n.pending = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// reason is the part of err worth showing to a user: the upstream message
// for remote failures, the full text otherwise.
func reason(err error) string {
	var re *remote.Error
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}
