package handlers

import (
	"context"
	"net/http"
	"time"

	"finQuestAPI/middleware"
	"finQuestAPI/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
	userService        *services.UserService
}

func NewAchievementHandler(achievementService *services.AchievementService, userService *services.UserService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
		userService:        userService,
	}
}

// GET /api/v1/achievements - full catalog with the caller's progress
func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userID, err := h.userService.GetUserID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	achievements, err := h.achievementService.GetAchievements(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, achievements)
}

// POST /admin/achievements/backfill-keys?force=true - recompute canonical keys
func (h *AchievementHandler) BackfillCanonicalKeys(w http.ResponseWriter, r *http.Request) {
	// The batch walks every record; give it room.
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	force := r.URL.Query().Get("force") == "true"

	report, err := h.achievementService.RecomputeCanonicalKeys(ctx, force)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}
