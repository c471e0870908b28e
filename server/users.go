package server

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/libregate/go-console-api"
)

func (s *Server) handleGetStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		okJSON(c, "ok")
	}
}

func (s *Server) handlePostAuthLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req console.LoginReq

		if err := c.BindJSON(&req); err != nil {
			return
		}

		token, userID, err := s.b.Login(req.Username, req.Password)
		if err != nil {
			failJSON(c, err.Error())
			return
		}

		okJSON(c, console.Auth{
			UserID: userID,
			Token:  token,
		})
	}
}

func (s *Server) handleGetUserSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.b.GetUser(c.GetInt("UserID"))
		if err != nil {
			failJSON(c, err.Error())
			return
		}

		okJSON(c, user)
	}
}

func (s *Server) handleGetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("userID"))
		if err != nil {
			failJSON(c, "malformed user id")
			return
		}

		user, err := s.b.GetUser(userID)
		if err != nil {
			failJSON(c, err.Error())
			return
		}

		okJSON(c, user)
	}
}

func (s *Server) handlePutUserSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req console.UpdateUserReq

		if err := c.BindJSON(&req); err != nil {
			return
		}

		// Self updates always target the caller, whatever the body says.
		if err := s.b.UpdateUser(c.GetInt("UserID"), req); err != nil {
			failJSON(c, err.Error())
			return
		}

		okJSON(c, nil)
	}
}

func (s *Server) handlePutUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req console.UpdateUserReq

		if err := c.BindJSON(&req); err != nil {
			return
		}

		if req.ID == 0 {
			failJSON(c, "missing user id")
			return
		}

		if err := s.b.UpdateUser(req.ID, req); err != nil {
			failJSON(c, err.Error())
			return
		}

		okJSON(c, nil)
	}
}

func (s *Server) handleGetGroups() gin.HandlerFunc {
	return func(c *gin.Context) {
		okJSON(c, s.b.GetGroups())
	}
}
