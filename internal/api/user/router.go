package user

import (
	"github.com/gin-gonic/gin"
	"github.com/rriley/picoCTF/internal/api"
	"github.com/rriley/picoCTF/internal/catalog"
	"github.com/rriley/picoCTF/internal/config"
	"github.com/rriley/picoCTF/internal/contest"
	"gorm.io/gorm"
)

// NewUserRouter creates and configures the user Gin engine.
func NewUserRouter(
	cfg *config.Config,
	db *gorm.DB,
	svc *contest.Service,
	state *catalog.AppState) *gin.Engine {

	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, svc, state)

	v1 := r.Group("/api/v1")
	{
		// Auth
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.register)
			authGroup.POST("/login", h.login)
			authGroup.GET("/status", h.getAuthStatus)
		}

		// Live scoreboard stream; token optional, the board is public.
		v1.GET("/ws/scoreboard", h.handleScoreboardWs)

		// Publicly accessible info
		v1.GET("/competition", h.getCompetition)
		v1.GET("/stats/scoreboard", h.getScoreboard)
		v1.GET("/stats/top_teams_score_progression", h.getTopTeamsProgression)

		// Authenticated routes
		authed := v1.Group("/")
		authed.Use(api.AuthMiddleware(db, cfg.Auth.JWT.Secret))
		{
			// Problems
			authed.GET("/problems", h.getUnlockedProblems)
			authed.GET("/problems/solved", h.getSolvedProblems)
			authed.GET("/problems/:id", h.getProblem)
			authed.POST("/problems/submit", h.submitKey)

			// Scores
			authed.GET("/user/score", h.getUserScore)
			authed.GET("/team/score", h.getTeamScore)
			authed.GET("/stats/team/score_progression", h.getTeamScoreProgression)
			authed.GET("/stats/team/solved_problems", h.getTeamSolvedStats)

			// Team
			authed.GET("/team", h.getTeamInformation)
			authed.POST("/team/create", h.createTeam)
			authed.POST("/team/join", h.joinTeam)

			// Groups
			groups := authed.Group("/group")
			{
				groups.GET("/list", h.getGroupList)
				groups.GET("", h.getGroup)
				groups.POST("/join", h.joinGroup)
				groups.POST("/leave", h.leaveGroup)
				groups.POST("/create", api.RequireTeacher(), h.createGroup)
				groups.POST("/delete", api.RequireTeacher(), h.deleteGroup)
				groups.GET("/score", api.RequireTeacher(), h.getGroupScore)
				groups.GET("/member_information", api.RequireTeacher(), h.getGroupMemberInformation)
			}

			// Game
			game := authed.Group("/game")
			{
				game.GET("/get_state", h.getGameState)
				game.POST("/update_state", h.updateGameState)
			}
		}
	}

	return r
}
