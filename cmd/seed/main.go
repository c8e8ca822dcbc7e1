package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/pazarmk/pazar-backend/internal/config"
	"github.com/pazarmk/pazar-backend/internal/db"
	"github.com/pazarmk/pazar-backend/internal/model"
	"gorm.io/gorm"
)

type seedCategory struct {
	Name     string
	NameMK   string
	Slug     string
	Icon     string
	Children []seedCategory
}

// Category tree seeded for both locales.
var categories = []seedCategory{
	{Name: "Electronics", NameMK: "Електроника", Slug: "electronics", Icon: "cpu", Children: []seedCategory{
		{Name: "Phones", NameMK: "Телефони", Slug: "phones"},
		{Name: "Computers", NameMK: "Компјутери", Slug: "computers"},
		{Name: "TV & Audio", NameMK: "ТВ и аудио", Slug: "tv-audio"},
	}},
	{Name: "Vehicles", NameMK: "Возила", Slug: "vehicles", Icon: "car", Children: []seedCategory{
		{Name: "Cars", NameMK: "Автомобили", Slug: "cars"},
		{Name: "Motorcycles", NameMK: "Мотоцикли", Slug: "motorcycles"},
		{Name: "Parts", NameMK: "Делови", Slug: "vehicle-parts"},
	}},
	{Name: "Home & Garden", NameMK: "Дом и градина", Slug: "home-garden", Icon: "home", Children: []seedCategory{
		{Name: "Furniture", NameMK: "Мебел", Slug: "furniture"},
		{Name: "Appliances", NameMK: "Апарати", Slug: "appliances"},
	}},
	{Name: "Fashion", NameMK: "Мода", Slug: "fashion", Icon: "shirt", Children: []seedCategory{
		{Name: "Clothes", NameMK: "Облека", Slug: "clothes"},
		{Name: "Shoes", NameMK: "Обувки", Slug: "shoes"},
	}},
	{Name: "Sports & Hobby", NameMK: "Спорт и хоби", Slug: "sports-hobby", Icon: "bike"},
	{Name: "Pets", NameMK: "Миленици", Slug: "pets", Icon: "paw"},
	{Name: "Books & Media", NameMK: "Книги и медиуми", Slug: "books-media", Icon: "book"},
	{Name: "Other", NameMK: "Останато", Slug: "other", Icon: "box"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(&model.Category{}); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	for _, root := range categories {
		parent, err := upsert(conn, root, nil)
		if err != nil {
			log.Fatalf("seed %s: %v", root.Slug, err)
		}
		for _, child := range root.Children {
			if _, err := upsert(conn, child, &parent.ID); err != nil {
				log.Fatalf("seed %s: %v", child.Slug, err)
			}
		}
	}
	log.Println("categories seeded")
}

func upsert(conn *gorm.DB, sc seedCategory, parentID *uint64) (*model.Category, error) {
	cat := model.Category{Slug: sc.Slug}
	if err := conn.Where("slug = ?", sc.Slug).FirstOrCreate(&cat).Error; err != nil {
		return nil, err
	}
	cat.Name = sc.Name
	cat.NameMK = sc.NameMK
	cat.ParentID = parentID
	if sc.Icon != "" {
		icon := sc.Icon
		cat.Icon = &icon
	}
	if err := conn.Save(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}
