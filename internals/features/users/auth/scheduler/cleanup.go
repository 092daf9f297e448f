package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"markme_backend/internals/features/users/auth/model"
)

// StartAuthCleanupScheduler menyapu refresh token kedaluwarsa dan
// pending registration yang tidak pernah diverifikasi. Pengganti TTL index.
func StartAuthCleanupScheduler(db *gorm.DB) {
	go func() {
		intervalHours := 24
		if val := os.Getenv("AUTH_CLEANUP_INTERVAL_HOURS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalHours = parsed
			}
		}

		for {
			log.Println("[CLEANUP] Menjalankan pembersihan refresh_tokens...")
			now := time.Now()

			res := db.Where("expires_at < ?", now).
				Delete(&model.RefreshTokenModel{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] Gagal hapus refresh token: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d refresh token kedaluwarsa dihapus", res.RowsAffected)
			}

			res = db.Where("expires_at < ?", now).
				Delete(&model.PendingAdminRegistrationModel{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] Gagal hapus pending registration: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d pending registration kedaluwarsa dihapus", res.RowsAffected)
			}

			time.Sleep(time.Duration(intervalHours) * time.Hour)
		}
	}()
}
