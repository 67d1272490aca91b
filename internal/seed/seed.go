// Package seed inserts the reference codes the engine validates against,
// plus optional demo accounts and schedules for local development.
package seed

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/utils"
)

type codeSeed struct {
	keyMap  string
	valueEn string
	valueVi string
}

var statusCodes = []codeSeed{
	{"S1", "Pending confirmation", "Chờ xác nhận"},
	{"S2", "Confirmed", "Đã xác nhận"},
	{"S3", "Cancelled", "Đã hủy"},
	{"S4", "Completed", "Đã khám xong"},
}

var timeCodes = []codeSeed{
	{"T1", "8:00 - 9:00", "8:00 - 9:00"},
	{"T2", "9:00 - 10:00", "9:00 - 10:00"},
	{"T3", "10:00 - 11:00", "10:00 - 11:00"},
	{"T4", "11:00 - 12:00", "11:00 - 12:00"},
	{"T5", "13:00 - 14:00", "13:00 - 14:00"},
	{"T6", "14:00 - 15:00", "14:00 - 15:00"},
	{"T7", "15:00 - 16:00", "15:00 - 16:00"},
	{"T8", "16:00 - 17:00", "16:00 - 17:00"},
}

var roleCodes = []codeSeed{
	{"R1", "Patient", "Bệnh nhân"},
	{"R2", "Doctor", "Bác sĩ"},
	{"R3", "Admin", "Quản trị viên"},
}

// ReferenceCodes upserts the closed code sets (statuses, time slots,
// roles). It runs on every startup so a fresh database passes the
// AllcodeService startup check.
func ReferenceCodes(db *gorm.DB) error {
	groups := map[string][]codeSeed{
		models.CodeTypeStatus: statusCodes,
		models.CodeTypeTime:   timeCodes,
		models.CodeTypeRole:   roleCodes,
	}
	for codeType, seeds := range groups {
		for _, s := range seeds {
			code := models.Allcode{
				KeyMap:  s.keyMap,
				Type:    codeType,
				ValueEn: s.valueEn,
				ValueVi: s.valueVi,
			}
			err := db.Where("key_map = ? AND type = ?", s.keyMap, codeType).
				FirstOrCreate(&code).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

type userSeed struct {
	email     string
	firstName string
	lastName  string
	role      models.Role
}

var demoUsers = []userSeed{
	{"admin@clinic.local", "An", "Hoang", models.RoleAdmin},
	{"doctor@clinic.local", "Minh", "Tran", models.RoleDoctor},
	{"patient@clinic.local", "Lan", "Nguyen", models.RolePatient},
}

// DemoData inserts demo accounts and a few approved schedules for the demo
// doctor so the API is exercisable without the external auth/user services.
// A long-lived access token per account is written to the log.
func DemoData(db *gorm.DB, jwtSecret string, log zerolog.Logger) error {
	var doctorID string
	for _, u := range demoUsers {
		user := models.User{
			Email:     u.email,
			FirstName: u.firstName,
			LastName:  u.lastName,
			Role:      u.role,
		}
		if err := user.SetPassword("changeme"); err != nil {
			return err
		}
		if err := db.Where("email = ?", u.email).FirstOrCreate(&user).Error; err != nil {
			return err
		}
		if u.role == models.RoleDoctor {
			doctorID = user.ID
		}

		token, err := utils.GenerateToken(&user, jwtSecret, 24*time.Hour)
		if err != nil {
			return err
		}
		log.Info().
			Str("email", user.Email).
			Str("role", string(user.Role)).
			Str("token", token).
			Msg("demo user ready")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for day := 0; day < 3; day++ {
		for _, tt := range []models.TimeType{models.TimeT1, models.TimeT2, models.TimeT3} {
			schedule := models.Schedule{
				DoctorID:  doctorID,
				Date:      today.AddDate(0, 0, day),
				TimeType:  tt,
				MaxNumber: 3,
				Status:    models.ScheduleApproved,
			}
			err := db.Where("doctor_id = ? AND date = ? AND time_type = ?",
				doctorID, schedule.Date, tt).
				FirstOrCreate(&schedule).Error
			if err != nil {
				return err
			}
		}
	}

	return nil
}
