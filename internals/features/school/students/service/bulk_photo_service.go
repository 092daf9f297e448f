// internals/features/school/students/service/bulk_photo_service.go
package service

import (
	"archive/zip"
	"context"
	"io"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"markme_backend/internals/features/school/students/dto"
	"markme_backend/internals/features/school/students/model"
	"markme_backend/internals/helpers/ai"
	helperOSS "markme_backend/internals/helpers/oss"
)

// maksimal upload foto berjalan bersamaan
const photoUploadConcurrency = 5

var photoExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// EligiblePhotoEntry memutuskan apakah entry zip layak diproses.
// Stem nama file (tanpa ekstensi) dipakai sebagai roll number.
func EligiblePhotoEntry(name string) (stem string, ok bool, reason string) {
	clean := strings.ReplaceAll(name, "\\", "/")
	base := path.Base(clean)

	if strings.HasSuffix(clean, "/") {
		return "", false, "direktori"
	}
	if strings.Contains(clean, "__MACOSX") || base == ".DS_Store" || strings.HasPrefix(base, ".") {
		return "", false, "file sistem"
	}
	ext := strings.ToLower(path.Ext(base))
	if !photoExts[ext] {
		return "", false, "bukan gambar jpg/jpeg/png"
	}
	stem = strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		return "", false, "nama file kosong"
	}
	return stem, true, ""
}

// ImportPhotosFromZip mencocokkan setiap foto ke siswa lewat roll number,
// upload ke object storage (webp), simpan URL, lalu trigger pembuatan
// embedding (best-effort). Upload dibatasi 5 sekaligus.
func ImportPhotosFromZip(
	ctx context.Context,
	db *gorm.DB,
	oss *helperOSS.OSSService,
	aiClient *ai.Client,
	schoolID, classID uuid.UUID,
	zr *zip.Reader,
) *dto.BulkPhotoUploadResponse {
	var students []model.StudentModel
	if err := db.Select("id", "roll_number").
		Where("class_id = ? AND school_id = ?", classID, schoolID).
		Find(&students).Error; err != nil {
		log.Println("[ERROR] ImportPhotosFromZip load siswa gagal:", err)
		return &dto.BulkPhotoUploadResponse{Results: []dto.PhotoFileResult{}}
	}
	byRoll := make(map[string]uuid.UUID, len(students))
	for _, s := range students {
		byRoll[s.RollNumber] = s.ID
	}

	var (
		mu      sync.Mutex
		results []dto.PhotoFileResult
	)
	add := func(r dto.PhotoFileResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(photoUploadConcurrency)

	for _, f := range zr.File {
		f := f
		stem, ok, reason := EligiblePhotoEntry(f.Name)
		if !ok {
			// file sistem & direktori tidak usah muncul di summary
			if reason != "file sistem" && reason != "direktori" {
				add(dto.PhotoFileResult{File: f.Name, Status: "skipped", Reason: reason})
			}
			continue
		}

		studentID, found := byRoll[stem]
		if !found {
			add(dto.PhotoFileResult{File: f.Name, Roll: stem, Status: "skipped", Reason: "siswa tidak ditemukan"})
			continue
		}

		g.Go(func() error {
			rc, err := f.Open()
			if err != nil {
				add(dto.PhotoFileResult{File: f.Name, Roll: stem, Status: "failed", Reason: "gagal membuka entry"})
				return nil
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				add(dto.PhotoFileResult{File: f.Name, Roll: stem, Status: "failed", Reason: "gagal membaca entry"})
				return nil
			}

			dir := helperOSS.SchoolScopedDir(schoolID.String(), "students", classID.String(), "face-images")
			url, err := oss.UploadBytesAsWebP(gctx, data, stem+".webp", dir, helperOSS.FacePhotoOptions())
			if err != nil {
				add(dto.PhotoFileResult{File: f.Name, Roll: stem, Status: "failed", Reason: "upload gagal"})
				return nil
			}

			if err := db.Model(&model.StudentModel{}).
				Where("id = ?", studentID).
				Update("profile_image_url", url).Error; err != nil {
				add(dto.PhotoFileResult{File: f.Name, Roll: stem, Status: "failed", Reason: "gagal menyimpan URL"})
				return nil
			}

			// embedding best-effort, kegagalan AI tidak menggagalkan import
			if err := aiClient.GenerateEmbedding(gctx, studentID.String(), classID.String(), url); err != nil {
				log.Printf("[ERROR] Embedding untuk siswa %s gagal: %v\n", studentID, err)
			}

			add(dto.PhotoFileResult{File: f.Name, Roll: stem, Status: "success", URL: url})
			return nil
		})
	}
	_ = g.Wait()

	resp := &dto.BulkPhotoUploadResponse{Results: results}
	if resp.Results == nil {
		resp.Results = []dto.PhotoFileResult{}
	}
	for _, r := range results {
		switch r.Status {
		case "success":
			resp.Success++
		case "skipped":
			resp.Skipped++
		default:
			resp.Failed++
		}
	}
	return resp
}
