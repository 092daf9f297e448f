// internals/helpers/mailer/mailer.go
package mailer

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"markme_backend/internals/configs"
)

// Mailer membungkus SendGrid untuk email transaksional (OTP, kredensial, reset password).
type Mailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewMailerFromEnv() (*Mailer, error) {
	apiKey := strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing env: SENDGRID_API_KEY")
	}
	fromEmail := configs.GetEnv("MAIL_FROM_EMAIL", "no-reply@markme.app")
	fromName := configs.GetEnv("MAIL_FROM_NAME", "MarkME")
	return &Mailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

func (m *Mailer) send(toName, toEmail, subject, htmlBody string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	msg := mail.NewSingleEmail(from, subject, to, stripTags(htmlBody), htmlBody)

	resp, err := m.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	log.Printf("[MAIL] sent %q to %s (status %d)", subject, toEmail, resp.StatusCode)
	return nil
}

// SendOTP mengirim kode verifikasi registrasi admin.
func (m *Mailer) SendOTP(toName, toEmail, otp string, validMinutes int) error {
	subject := "Kode Verifikasi MarkME"
	body := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:480px;margin:auto">
			<h2>Verifikasi Email Anda</h2>
			<p>Halo %s,</p>
			<p>Gunakan kode berikut untuk menyelesaikan registrasi akun admin MarkME:</p>
			<p style="font-size:28px;font-weight:bold;letter-spacing:6px">%s</p>
			<p>Kode berlaku selama %d menit. Abaikan email ini jika Anda tidak merasa mendaftar.</p>
		</div>`, htmlEscape(toName), htmlEscape(otp), validMinutes)
	return m.send(toName, toEmail, subject, body)
}

// SendTeacherCredentials mengirim kredensial awal akun guru yang dibuat admin.
func (m *Mailer) SendTeacherCredentials(toName, toEmail, password, schoolName string) error {
	subject := "Akun Guru MarkME Anda"
	body := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:480px;margin:auto">
			<h2>Selamat Datang di MarkME</h2>
			<p>Halo %s,</p>
			<p>Akun guru Anda untuk sekolah <b>%s</b> sudah dibuat.</p>
			<p>Email: <b>%s</b><br>Password: <b>%s</b></p>
			<p>Segera login dan ganti password Anda.</p>
		</div>`, htmlEscape(toName), htmlEscape(schoolName), htmlEscape(toEmail), htmlEscape(password))
	return m.send(toName, toEmail, subject, body)
}

// SendPasswordReset mengirim tautan reset password.
func (m *Mailer) SendPasswordReset(toName, toEmail, resetToken string, validMinutes int) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(configs.AppBaseURL, "/"), resetToken)
	subject := "Reset Password MarkME"
	body := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:480px;margin:auto">
			<h2>Reset Password</h2>
			<p>Halo %s,</p>
			<p>Kami menerima permintaan reset password untuk akun Anda. Klik tombol di bawah untuk melanjutkan:</p>
			<p><a href="%s" style="background:#2563eb;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none">Reset Password</a></p>
			<p>Tautan berlaku selama %d menit. Abaikan email ini jika Anda tidak meminta reset.</p>
		</div>`, htmlEscape(toName), link, validMinutes)
	return m.send(toName, toEmail, subject, body)
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func stripTags(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '<':
			in = true
		case r == '>':
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
