package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Manish1808/Cybernauts/internal/notify"
	"github.com/Manish1808/Cybernauts/internal/report"
	"github.com/Manish1808/Cybernauts/internal/service"
)

// -----------------------------
// Public
// -----------------------------

func (h *Handler) ListEvents(c *gin.Context) {
	upcoming, completed, err := h.svc.Events.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upcomingEvents": upcoming, "completedEvents": completed})
}

func (h *Handler) RecentEvent(c *gin.Context) {
	e, err := h.svc.Events.Recent(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) GetEvent(c *gin.Context) {
	e, err := h.svc.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) Register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	p, err := h.svc.Registrations.Register(c.Request.Context(), c.Param("id"), service.RegistrationInput{
		Name:   body.Name,
		Email:  body.Email,
		Phone:  body.Phone,
		RollNo: body.RollNo,
		Branch: body.Branch,
		Year:   body.Year,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "participant": p})
}

// -----------------------------
// Admin
// -----------------------------

func (h *Handler) AllEvents(c *gin.Context) {
	events, err := h.svc.Events.All(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) CreateEvent(c *gin.Context) {
	req, err := bindEvent(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	ev, err := req.toEvent()
	if err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.svc.Events.Create(c.Request.Context(), ev, formFile(c, "poster"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Event added successfully", "eventId": created.ID})
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	req, err := bindEvent(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.svc.Events.Update(c.Request.Context(), c.Param("id"), patch,
		formFile(c, "poster"), formFiles(c, "images"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event Updated Successfully", "updatedEvent": updated})
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	if err := h.svc.Events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event Deleted Successfully"})
}

func (h *Handler) AddWinner(c *gin.Context) {
	var body winnerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	e, err := h.svc.Events.AddWinner(c.Request.Context(), c.Param("id"), body.toWinner())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Winner added successfully", "event": e})
}

func (h *Handler) RemoveParticipant(c *gin.Context) {
	var body removeParticipantRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	if err := h.svc.Registrations.Remove(c.Request.Context(), c.Param("id"), body.Email); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

func (h *Handler) NotifyParticipants(c *gin.Context) {
	var body noticeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	res, err := h.svc.Notices.Notify(c.Request.Context(), c.Param("id"), body.Notice)
	if err != nil {
		h.fail(c, err)
		return
	}
	sweepResponse(c, "Event update sent", res)
}

func (h *Handler) Announce(c *gin.Context) {
	var body announceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	res, err := h.svc.Notices.Announce(c.Request.Context(), body.Notice, body.Branches)
	if err != nil {
		h.fail(c, err)
		return
	}
	sweepResponse(c, "Announcement sent", res)
}

func (h *Handler) RequestFeedback(c *gin.Context) {
	res, err := h.svc.Feedback.RequestFeedback(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	sweepResponse(c, "Feedback requests sent", res)
}

func (h *Handler) IssueCertificates(c *gin.Context) {
	res, err := h.svc.Certificates.Issue(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	sweepResponse(c, "Certificates sent", res)
}

func sweepResponse(c *gin.Context, what string, res notify.Result) {
	c.JSON(http.StatusOK, gin.H{
		"message":    fmt.Sprintf("%s. Success: %d, Failed: %d", what, res.SentCount, res.ErrorCount),
		"sentCount":  res.SentCount,
		"errorCount": res.ErrorCount,
	})
}

func (h *Handler) ExportEvent(c *gin.Context) {
	out, err := h.svc.Exports.Event(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	sendExport(c, out)
}

func (h *Handler) ExportAll(c *gin.Context) {
	out, err := h.svc.Exports.All(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	sendExport(c, out)
}

func sendExport(c *gin.Context, out *service.Export) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.FileName))
	c.Data(http.StatusOK, report.ContentType, out.Data)
}
