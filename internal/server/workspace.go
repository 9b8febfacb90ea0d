package server

import (
	"net/http"
	"time"

	"github.com/rcliao/workspace-assistant/internal/model"
	"github.com/rcliao/workspace-assistant/internal/session"
	"github.com/rcliao/workspace-assistant/internal/store"
)

type memoRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type taskRequest struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
}

type toggleRequest struct {
	Completed bool `json:"completed"`
}

type eventRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"` // 2006-01-02, empty means today
	Time  string `json:"time"` // 15:04, empty means 09:00
	Notes string `json:"notes"`
}

type tasksResponse struct {
	Tasks    []model.Task `json:"tasks"`
	Progress string       `json:"progress"`
}

func (s *Server) listMemosHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var memos []model.Memo
	err := sess.Do(func(st store.Store) error {
		var err error
		memos, err = st.ListMemos(r.Context())
		return err
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memos)
}

func (s *Server) addMemoHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req memoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var memo *model.Memo
	err := sess.Do(func(st store.Store) error {
		var err error
		memo, err = st.AddMemo(r.Context(), store.AddMemoParams{Title: req.Title, Body: req.Body})
		return err
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memo)
}

func (s *Server) removeMemoHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	err := sess.Do(func(st store.Store) error {
		return st.RemoveMemo(r.Context(), r.PathValue("id"))
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var resp tasksResponse
	err := sess.Do(func(st store.Store) error {
		tasks, err := st.ListTasks(r.Context())
		if err != nil {
			return err
		}
		stats, err := st.Stats(r.Context())
		if err != nil {
			return err
		}
		resp = tasksResponse{Tasks: tasks, Progress: stats.Progress()}
		return nil
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addTaskHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var task *model.Task
	err := sess.Do(func(st store.Store) error {
		var err error
		task, err = st.AddTask(r.Context(), store.AddTaskParams{Title: req.Title, Priority: req.Priority})
		return err
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) toggleTaskHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req toggleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var task *model.Task
	err := sess.Do(func(st store.Store) error {
		var err error
		task, err = st.ToggleTask(r.Context(), r.PathValue("id"), req.Completed)
		return err
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) removeTaskHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	err := sess.Do(func(st store.Store) error {
		return st.RemoveTask(r.Context(), r.PathValue("id"))
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listEventsHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var events []model.Event
	err := sess.Do(func(st store.Store) error {
		var err error
		events, err = st.ListEvents(r.Context())
		return err
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) addEventHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req eventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	at, err := model.ParseEventTime(req.Date, req.Time, time.Now(), s.opts.Location)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, kindValidation, err.Error())
		return
	}

	var event *model.Event
	err = sess.Do(func(st store.Store) error {
		var err error
		event, err = st.AddEvent(r.Context(), store.AddEventParams{Title: req.Title, At: at, Notes: req.Notes})
		return err
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) removeEventHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	err := sess.Do(func(st store.Store) error {
		return st.RemoveEvent(r.Context(), r.PathValue("id"))
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
