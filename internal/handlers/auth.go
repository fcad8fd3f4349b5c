package handlers

import (
	"errors"
	"net/http"

	"kalibracloud/internal/middleware"
	"kalibracloud/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"form": registerForm{Role: "client"},
	})
}

type registerForm struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	Password    string `form:"password"`
	Role        string `form:"role"`
	CompanyName string `form:"company_name"`
}

func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "register.html", gin.H{"error": "Data tidak valid", "form": form})
		return
	}

	_, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Name:        form.Name,
		Email:       form.Email,
		Password:    form.Password,
		Role:        form.Role,
		CompanyName: form.CompanyName,
	})
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, service.ErrEmailRegistered) {
			status = http.StatusInternalServerError
			_ = c.Error(err)
		}
		form.Password = ""
		render(c, status, "register.html", gin.H{"error": service.Message(err), "form": form})
		return
	}

	flash(c, flashSuccess, service.MsgRegisterOK)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"email": ""})
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Data tidak valid", "email": ""})
		return
	}

	user, err := h.svc.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, service.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
			_ = c.Error(err)
		}
		render(c, status, "login.html", gin.H{"error": service.Message(err), "email": form.Email})
		return
	}

	if err := middleware.SignIn(c, user); err != nil {
		_ = c.Error(err)
		render(c, http.StatusInternalServerError, "login.html", gin.H{"error": service.Message(err), "email": form.Email})
		return
	}

	flash(c, flashSuccess, service.MsgLoginOK)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := middleware.SignOut(c); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusFound, "/")
}
