package service

import (
	"errors"

	"kalibracloud/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrRequestNotFound    = errors.New("calibration request not found")
	ErrAlreadyQuoted      = errors.New("calibration request already quoted")
	ErrForbidden          = errors.New("action not allowed for role")
	ErrUnknownRole        = errors.New("unknown role")
)

// User-facing texts.
const (
	MsgLoginOK          = "Login berhasil!"
	MsgRegisterOK       = "Registrasi berhasil! Silakan login."
	MsgInstrumentAdded  = "Alat berhasil ditambahkan!"
	MsgRequestCreated   = "Permintaan kalibrasi berhasil dibuat!"
	MsgQuotationCreated = "Penawaran berhasil dibuat!"
)

// Message returns the text shown in the error slot for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Email atau password salah"
	case errors.Is(err, ErrEmailRegistered), errors.Is(err, store.ErrEmailTaken):
		return "Email sudah terdaftar"
	case errors.Is(err, ErrRequestNotFound):
		return "Permintaan tidak ditemukan"
	case errors.Is(err, ErrAlreadyQuoted):
		return "Permintaan sudah memiliki penawaran"
	case errors.Is(err, ErrForbidden):
		return "Akses ditolak"
	default:
		return "Terjadi kesalahan, silakan coba lagi"
	}
}
