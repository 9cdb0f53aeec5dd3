package service

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EmailSender struct {
	dialer  *mail.Dialer
	logger  *logrus.Logger
	enabled bool
}

func NewEmailSender(logger *logrus.Logger) *EmailSender {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	enabledStr := os.Getenv("EMAIL_SENDER_ENABLED")
	isInsecureSkipVerifyStr := os.Getenv("INSECURE_SKIP_VERIFY")

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		smtpPort = 587 // стандартный порт submission, если не задан
	}
	enabled := enabledStr == "true"
	isInsecureSkipVerify := isInsecureSkipVerifyStr == "true"

	d := mail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: isInsecureSkipVerify,
	}

	return &EmailSender{
		dialer:  d,
		logger:  logger,
		enabled: enabled,
	}
}

func (es *EmailSender) SendPaymentNotification(email string, amount float64, paymentType string) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := fmt.Sprintf("Уведомление о платеже (%s)", paymentType)
	content := fmt.Sprintf(`
		<h1>Платеж по кредиту принят</h1>
		<p>Тип платежа: <strong>%s</strong></p>
		<p>Сумма: <strong>%.2f</strong></p>
		<p>Дата: <strong>%s</strong></p>
		<small>Это автоматическое уведомление, пожалуйста, не отвечайте на него</small>
	`, paymentType, amount, time.Now().Format("02.01.2006 15:04"))

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) SendLoanPaidOffNotification(email string, loanID uuid.UUID, totalPaid float64) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := "Кредит полностью погашен"
	content := fmt.Sprintf(`
		<h1>Поздравляем, кредит погашен</h1>
		<p>Номер кредита: <strong>%s</strong></p>
		<p>Всего выплачено: <strong>%.2f</strong></p>
		<p>Дата: <strong>%s</strong></p>
		<small>Это автоматическое уведомление, пожалуйста, не отвечайте на него</small>
	`, loanID, totalPaid, time.Now().Format("02.01.2006 15:04"))

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) sendEmail(to, subject, content string) error {
	m := mail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", content)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.WithError(err).Errorf("Ошибка отправки письма на %s", to)
		return fmt.Errorf("failed to send email: %w", err)
	}

	es.logger.Infof("Письмо успешно отправлено на %s", to)
	return nil
}
