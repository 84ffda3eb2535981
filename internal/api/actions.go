package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pdamaso/cityfall/internal/constants"
	"github.com/pdamaso/cityfall/internal/engine"
	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/service"
)

// writeServiceError maps service/engine sentinels onto HTTP statuses. Unknown
// errors become a 500 so handlers never leak internals.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
	case errors.Is(err, service.ErrSessionFinished), errors.Is(err, service.ErrSessionNotInProgress), errors.Is(err, engine.ErrSessionFinished):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionNotInProgress})
	case errors.Is(err, service.ErrPlayerCaptured):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlayerIsCaptured})
	case errors.Is(err, engine.ErrInteractionPending):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrInteractionPending})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateSession})
	}
}

type nodeActionRequest struct {
	NodeID  int `json:"node_id"`
	ActorID int `json:"actor_id"`
}

// NodeAction resolves the acting side's basic action at a district. ActorID
// defaults to the player when the payload omits it.
func (h *SessionHandler) NodeAction(c *gin.Context) {
	sessionUUID := c.Param("sessionUUID")
	var req nodeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.ActorID == 0 {
		req.ActorID = game.PlayerID
	}
	report, err := service.SubmitNodeAction(h.repo, h.eng, sessionUUID, req.ActorID, req.NodeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type gearActionRequest struct {
	NodeID  int `json:"node_id"`
	GearID  int `json:"gear_id"`
	ActorID int `json:"actor_id"`
}

// gearActionResponse carries either the finished report or the dice request
// that parked the action; exactly one of the two is set.
type gearActionResponse struct {
	Report *engine.OutcomeReport `json:"report,omitempty"`
	Dice   *engine.DiceRequest   `json:"dice_request,omitempty"`
}

// GearAction resolves a node-gear action. When the compromise roll is left
// to the player the response carries a dice request instead of a report.
func (h *SessionHandler) GearAction(c *gin.Context) {
	sessionUUID := c.Param("sessionUUID")
	var req gearActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.ActorID == 0 {
		req.ActorID = game.PlayerID
	}
	report, dice, err := service.SubmitGearAction(h.repo, h.eng, sessionUUID, req.NodeID, req.GearID, req.ActorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gearActionResponse{Report: report, Dice: dice})
}

type diceResultRequest struct {
	Roll        int  `json:"roll"`
	SpendRenown bool `json:"spend_renown"`
}

// DiceResult resumes the gear action parked on an external dice roll.
func (h *SessionHandler) DiceResult(c *gin.Context) {
	sessionUUID := c.Param("sessionUUID")
	var req diceResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.Roll < 0 || req.Roll > 99 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	report, err := service.SubmitDiceResult(h.repo, h.eng, sessionUUID, req.Roll, req.SpendRenown)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type targetActionRequest struct {
	NodeID int `json:"node_id"`
}

// TargetAction resolves a player attempt on the target at a district.
func (h *SessionHandler) TargetAction(c *gin.Context) {
	sessionUUID := c.Param("sessionUUID")
	var req targetActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	report, err := service.SubmitTargetAction(h.repo, h.eng, sessionUUID, req.NodeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// teamActionResponse carries either the finished report or the picker
// request listing the archetypes the caller may insert.
type teamActionResponse struct {
	Report *engine.OutcomeReport     `json:"report,omitempty"`
	Picker *engine.TeamPickerRequest `json:"picker,omitempty"`
}

// TeamAction inserts a team at a district. An empty arc returns the list of
// choices instead of inserting.
func (h *SessionHandler) TeamAction(c *gin.Context) {
	sessionUUID := c.Param("sessionUUID")
	var req engine.TeamDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	report, picker, err := service.SubmitTeamAction(h.repo, h.eng, sessionUUID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, teamActionResponse{Report: report, Picker: picker})
}

// EndTurn runs end-of-turn and start-of-turn processing, looping through AI
// and autorun turns until control returns to a human side.
func (h *SessionHandler) EndTurn(c *gin.Context) {
	sessionUUID := c.Param("sessionUUID")
	s, err := service.EndTurn(h.repo, h.eng, sessionUUID, h.actionTimeout)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out, err := MarshalForContext(c, s)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateSession})
		return
	}
	c.JSON(http.StatusOK, out)
}

type autoRunRequest struct {
	Turns int `json:"turns"`
}

// AutoRun schedules a number of turns to run without presentation pauses.
func (h *SessionHandler) AutoRun(c *gin.Context) {
	sessionUUID := c.Param("sessionUUID")
	var req autoRunRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Turns < 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	s, err := service.SetAutoRun(h.repo, h.eng, sessionUUID, req.Turns)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out, err := MarshalForContext(c, s)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateSession})
		return
	}
	c.JSON(http.StatusOK, out)
}
