package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rriley/picoCTF/internal/api"
	"github.com/rriley/picoCTF/internal/contest"
	"github.com/rriley/picoCTF/internal/database"
	"github.com/rriley/picoCTF/internal/util"
)

func (h *Handler) getUserScore(c *gin.Context) {
	caller := api.GetCaller(c)
	score, err := h.svc.UserScore(caller.UID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			util.Error(c, http.StatusNotFound, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, gin.H{"score": score}, "Score retrieved")
}

func (h *Handler) getTeamScore(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you are not on a team")
		return
	}
	score, err := h.svc.TeamScore(caller.TID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			util.Error(c, http.StatusNotFound, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, gin.H{"score": score}, "Score retrieved")
}

func (h *Handler) getScoreboard(c *gin.Context) {
	// The board is public; group breakdowns only for authenticated callers.
	isAuthenticated := false
	if tokenString := c.Query("token"); tokenString != "" {
		if _, err := h.authenticatedCaller(tokenString); err == nil {
			isAuthenticated = true
		}
	}

	view, err := h.svc.Scoreboard(isAuthenticated)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, view, "Scoreboard retrieved")
}

func (h *Handler) getTeamScoreProgression(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you are not on a team")
		return
	}
	category := c.Query("category")

	series, err := h.svc.ScoreOverTime(caller.TID, category)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if series == nil {
		series = []contest.ScorePoint{}
	}
	util.Success(c, series, "Score progression retrieved")
}

func (h *Handler) getTopTeamsProgression(c *gin.Context) {
	progression, err := h.svc.TopTeamProgression(10)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, progression, "Top team progression retrieved")
}

func (h *Handler) getTeamSolvedStats(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you are not on a team")
		return
	}

	stats, err := h.svc.CategoryStats(caller.TID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	solved, err := h.svc.SolvedProblems(caller.TID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	solvedIDs := make([]string, 0, len(solved))
	for _, p := range solved {
		solvedIDs = append(solvedIDs, p.ID)
	}
	util.Success(c, gin.H{
		"categories": stats,
		"solved":     solvedIDs,
	}, "Team stats retrieved")
}
