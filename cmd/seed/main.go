package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/circle-app/circle-server/internal/config"
	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/infra/database"
	"github.com/circle-app/circle-server/internal/infra/repository"
	"github.com/circle-app/circle-server/internal/service"
	"github.com/circle-app/circle-server/internal/usecase"
	"github.com/circle-app/circle-server/jwt"
)

type demoUser struct {
	fullName string
	email    string
	username string
	photo    string
	bio      string
}

var (
	johan = demoUser{
		fullName: "Johan Liebert",
		email:    "johan@gmail.com",
		username: "monster",
		photo:    "http://localhost:3000/images/Tenma.jpg",
		bio:      "Life is not fair. It never was, and it never will be.",
	}
	tenma = demoUser{
		fullName: "Kenzo Tenma",
		email:    "tenma@gmail.com",
		username: "Dr. Tenma",
		photo:    "http://localhost:3000/images/Johan.jpeg",
		bio:      "Even if you can forget, you can't erase the past.",
	}
)

const demoPassword = "123456"

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.NewDatabase(conf.Database.Driver, conf.Database.DSN)
	if err != nil {
		panic("failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		panic("failed to migrate database")
	}

	codec, err := jwt.NewCodec(conf.Auth.TokenSecret, conf.Auth.TokenTTL)
	if err != nil {
		panic(err)
	}

	users := repository.NewUserRepository(db)
	threads := repository.NewThreadRepository(db)
	replies := repository.NewReplyRepository(db)
	auth := service.NewAuthService(codec, users)

	s := seeder{
		users:   users,
		account: usecase.NewAccountUsecase(users, threads, auth, nil, nil),
		thread:  usecase.NewThreadUsecase(threads, replies, users, nil, nil),
		like:    usecase.NewLikeUsecase(repository.NewLikeRepository(db), threads),
		follow:  usecase.NewFollowUsecase(repository.NewFollowRepository(db), users, true),
	}

	if err := s.run(context.Background()); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()), slog.String("module", "seed"))
		os.Exit(1)
	}
}

type seeder struct {
	users   *repository.UserRepository
	account *usecase.AccountUsecase
	thread  *usecase.ThreadUsecase
	like    *usecase.LikeUsecase
	follow  *usecase.FollowUsecase
}

func (s seeder) run(ctx context.Context) error {
	if _, err := s.users.FindByEmail(ctx, johan.email); err == nil {
		slog.Info("demo data already present, skipping", slog.String("module", "seed"))
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	j, err := s.create(ctx, johan)
	if err != nil {
		return err
	}
	t, err := s.create(ctx, tenma)
	if err != nil {
		return err
	}

	if _, err := s.follow.Toggle(ctx, j, t.ID); err != nil {
		return err
	}

	thread1, err := s.thread.Create(ctx, j, usecase.PostInput{
		Content: "The human heart is a strange vessel. Love and hatred can exist side by side.",
	})
	if err != nil {
		return err
	}
	thread2, err := s.thread.Create(ctx, t, usecase.PostInput{
		Content: "If you dont have any happy memories you can just make some. You can just make some from now on",
	})
	if err != nil {
		return err
	}

	if _, err := s.thread.Reply(ctx, t, thread1.ID, usecase.PostInput{Content: "Where are you?"}); err != nil {
		return err
	}
	if _, err := s.like.Toggle(ctx, j, thread2.ID); err != nil {
		return err
	}

	slog.Info("seed data created", slog.String("module", "seed"))
	return nil
}

func (s seeder) create(ctx context.Context, u demoUser) (domain.Identity, error) {
	session, err := s.account.Register(ctx, usecase.RegisterInput{
		FullName: u.fullName,
		Email:    u.email,
		Password: demoPassword,
	})
	if err != nil {
		return domain.Identity{}, err
	}

	user, err := s.account.UpdateProfile(ctx, session.User.Identity(), usecase.ProfileInput{
		Username: &u.username,
		Bio:      &u.bio,
	})
	if err != nil {
		return domain.Identity{}, err
	}

	// the demo avatars live on the frontend host, not in the blob store
	photo := u.photo
	user, err = s.users.Update(ctx, user.ID, domain.ProfileUpdate{PhotoProfile: &photo})
	if err != nil {
		return domain.Identity{}, err
	}
	return user.Identity(), nil
}
