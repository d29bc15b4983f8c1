package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"beautybook/internal/config"
	"beautybook/internal/database"
	"beautybook/internal/domain"
	"beautybook/internal/domain/auth"
	"beautybook/internal/pkg/logger"
)

type salonSeed struct {
	name     string
	city     string
	address  string
	services []domain.Service
	masters  []string
}

var salons = []salonSeed{
	{
		name:    "Lotus Beauty",
		city:    "Алматы",
		address: "пр. Абая 52",
		services: []domain.Service{
			{Name: "Маникюр", Category: "nails"},
			{Name: "Педикюр", Category: "nails"},
			{Name: "Стрижка женская", Category: "hair"},
		},
		masters: []string{"Дана", "Айгерим"},
	},
	{
		name:    "Barber Nomad",
		city:    "Астана",
		address: "ул. Кенесары 40",
		services: []domain.Service{
			{Name: "Стрижка мужская", Category: "hair"},
			{Name: "Оформление бороды", Category: "beard"},
		},
		masters: []string{"Ерлан"},
	},
}

func main() {
	days := flag.Int("days", 7, "how many days of slots to create")
	reset := flag.Bool("reset", false, "wipe bookings, slots and catalog first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal(err, "config load failed")
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal(err, "db connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err, "migration failed")
	}

	if *reset {
		log.Info("cleaning old data")
		for _, table := range []string{"bookings", "slots", "services", "specialists", "salons", "purchases", "packages", "transactions"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				log.Fatal(err, "cleanup failed", "table", table)
			}
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		admin, err := upsertUser(tx, "admin@beautybook.kz", "000000000001", "admin12345", "Администратор", domain.RoleAdmin, 0)
		if err != nil {
			return err
		}
		log.Info("admin ready", "login", admin.Login, "password", "admin12345")

		client, err := upsertUser(tx, "asel@mail.kz", "000000000010", "client12345", "Асель", domain.RoleClient, 100)
		if err != nil {
			return err
		}
		log.Info("client ready", "login", client.Login, "password", "client12345", "balance", client.Balance)

		if err := seedPackages(tx, client); err != nil {
			return err
		}

		for i, s := range salons {
			login := fmt.Sprintf("owner%d@beautybook.kz", i+1)
			owner, err := upsertUser(tx, login, fmt.Sprintf("00000000010%d", i), "owner12345", "Владелец "+s.name, domain.RoleSalon, 0)
			if err != nil {
				return err
			}
			n, err := seedSalon(tx, owner, s, *days)
			if err != nil {
				return fmt.Errorf("salon %s: %w", s.name, err)
			}
			log.Info("salon seeded", "salon", s.name, "owner", login, "slots", n)
		}
		return nil
	})
	if err != nil {
		log.Fatal(err, "seed failed")
	}
	log.Info("seed completed")
}

func upsertUser(tx *gorm.DB, login, personalID, password, name string, role domain.UserRole, balance int64) (*domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		Login:           login,
		PersonalID:      personalID,
		PasswordHash:    hash,
		Role:            role,
		Name:            name,
		Balance:         balance,
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "login"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "name", "email_verified"}),
	}).Create(u).Error
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", login, err)
	}
	// при конфликте ID не возвращается
	if err := tx.Where("login = ?", login).First(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func seedPackages(tx *gorm.DB, client *domain.User) error {
	packs := []domain.Package{
		{Name: "Разовое посещение", Price: 20, Visits: 1, IsActive: true},
		{Name: "5 визитов", Price: 90, Visits: 5, IsActive: true},
		{Name: "10 визитов", Price: 170, Visits: 10, IsActive: true},
	}
	for i := range packs {
		if err := tx.Where(domain.Package{Name: packs[i].Name}).FirstOrCreate(&packs[i]).Error; err != nil {
			return err
		}
	}

	var have int64
	if err := tx.Model(&domain.Purchase{}).Where("user_id = ?", client.ID).Count(&have).Error; err != nil {
		return err
	}
	if have > 0 {
		return nil
	}
	return tx.Create(&domain.Purchase{
		UserID:      client.ID,
		PackageID:   &packs[1].ID,
		PackageName: packs[1].Name,
		Price:       packs[1].Price,
		VisitsLeft:  packs[1].Visits,
		PurchasedAt: time.Now().UTC(),
	}).Error
}

func seedSalon(tx *gorm.DB, owner *domain.User, s salonSeed, days int) (int, error) {
	salon := &domain.Salon{OwnerID: owner.ID, Name: s.name, City: s.city, Address: s.address}
	if err := tx.Where(domain.Salon{OwnerID: owner.ID, Name: s.name}).FirstOrCreate(salon).Error; err != nil {
		return 0, err
	}

	services := make([]domain.Service, len(s.services))
	for i, svc := range s.services {
		svc.SalonID = salon.ID
		if err := tx.Where(domain.Service{SalonID: salon.ID, Name: svc.Name}).FirstOrCreate(&svc).Error; err != nil {
			return 0, err
		}
		services[i] = svc
	}

	masters := make([]domain.Specialist, len(s.masters))
	for i, name := range s.masters {
		m := domain.Specialist{SalonID: salon.ID, Name: name, Position: "мастер"}
		if err := tx.Where(domain.Specialist{SalonID: salon.ID, Name: name}).FirstOrCreate(&m).Error; err != nil {
			return 0, err
		}
		masters[i] = m
	}

	created := 0
	start := time.Now().UTC().AddDate(0, 0, 1)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("2006-01-02")
		for hour := 10; hour < 19; hour += 2 {
			svc := services[rand.Intn(len(services))]
			master := masters[rand.Intn(len(masters))]
			slot := domain.Slot{
				SalonID:         salon.ID,
				SalonName:       salon.Name,
				SpecialistID:    &master.ID,
				SpecialistName:  master.Name,
				ServiceID:       svc.ID,
				ServiceName:     svc.Name,
				ServiceCategory: svc.Category,
				Date:            date,
				Time:            fmt.Sprintf("%02d:00", hour),
				DurationMinutes: 60,
				Price:           int64(15 + rand.Intn(4)*5),
			}
			if err := tx.Create(&slot).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
