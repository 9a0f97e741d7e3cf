// Package email implementa el envío de correos de verificación vía SMTP.
package email

import (
	"fmt"
	"net/smtp"

	"github.com/tu-usuario/gastos-api/internal/application/usecase"
	"github.com/tu-usuario/gastos-api/pkg/config"
)

var _ usecase.VerificationMailer = (*SMTPSender)(nil)

// SMTPSender envía correos usando autenticación PLAIN sobre STARTTLS.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender construye el sender con la configuración SMTP.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// SendVerificationCode envía el código de verificación de cuenta al correo
// del usuario. Falla si el host SMTP no está configurado.
func (s *SMTPSender) SendVerificationCode(to, name, code string) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("smtp no configurado")
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	subject := "Verifica tu cuenta"
	body := fmt.Sprintf(
		"Hola %s,\r\n\r\n"+
			"Tu código de verificación es: %s\r\n\r\n"+
			"Ingresa este código para activar tu cuenta.\r\n",
		name, code,
	)
	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.FromName, from, to, subject, body,
	))

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(s.cfg.Addr(), auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("enviar correo de verificación: %w", err)
	}
	return nil
}
