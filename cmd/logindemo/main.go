// Command logindemo is an interactive terminal walkthrough of the goLogin
// engine: account creation, password login, OTP confirmation and lockout.
// OTP codes are printed to the terminal in place of a delivery channel.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/term"

	goLogin "github.com/MrEthical07/goLogin"
)

func main() {
	_ = godotenv.Load()

	var (
		dbPath    = flag.String("db", "", "credential file path; defaults to LOGIN_DB_PATH env or users.db")
		auditPath = flag.String("audit-log", "", "audit log file; defaults to LOGIN_AUDIT_LOG env, empty disables")
		redisAddr = flag.String("redis-addr", "", "redis address for the pending-OTP store; defaults to LOGIN_REDIS_ADDR env, empty keeps challenges in memory")
	)
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = os.Getenv("LOGIN_DB_PATH")
	}
	auditFile := *auditPath
	if auditFile == "" {
		auditFile = os.Getenv("LOGIN_AUDIT_LOG")
	}
	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("LOGIN_REDIS_ADDR")
	}

	cfg := goLogin.DefaultConfig()
	if path != "" {
		cfg.Store.Path = path
	}

	builder := goLogin.New().WithConfig(cfg)

	if auditFile != "" {
		f, err := os.OpenFile(auditFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open audit log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		builder = builder.WithAuditSink(goLogin.NewJSONWriterSink(f))
	}

	if addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()
		builder = builder.WithRedis(client)
	}

	engine, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	in := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Println()
		fmt.Println("1) create user")
		fmt.Println("2) login")
		fmt.Println("3) request otp")
		fmt.Println("4) list users")
		fmt.Println("5) exit")
		fmt.Print("> ")

		choice, err := readLine(in)
		if err != nil {
			return
		}
		switch choice {
		case "1":
			createUser(ctx, engine, in)
		case "2":
			login(ctx, engine, in)
		case "3":
			requestOTP(ctx, engine, in)
		case "4":
			for _, name := range engine.Usernames() {
				locked := ""
				if engine.IsLocked(name) {
					locked = " (locked)"
				}
				fmt.Printf("  %s%s\n", name, locked)
			}
		case "5", "exit", "quit":
			return
		default:
			fmt.Println("unknown choice")
		}
	}
}

func createUser(ctx context.Context, engine *goLogin.Engine, in *bufio.Reader) {
	fmt.Print("username: ")
	username, err := readLine(in)
	if err != nil {
		return
	}
	password, err := readPassword(in, "password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		return
	}

	result, err := engine.CreateUser(ctx, username, password)
	if err != nil {
		fmt.Printf("create failed: %v\n", err)
		return
	}
	if result.Persisted {
		fmt.Printf("user %q created\n", result.Username)
	} else {
		fmt.Printf("user %q created in memory only; saving the credential file failed\n", result.Username)
	}
}

func login(ctx context.Context, engine *goLogin.Engine, in *bufio.Reader) {
	fmt.Print("username: ")
	username, err := readLine(in)
	if err != nil {
		return
	}
	password, err := readPassword(in, "password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		return
	}

	result, err := engine.Login(ctx, username, password)
	if err != nil {
		fmt.Printf("login failed: %v\n", err)
		return
	}
	if !result.OTPRequired {
		fmt.Println("login successful")
		return
	}

	if result.Reused {
		fmt.Println("an OTP was already issued for this account; enter that code")
	} else {
		fmt.Printf("your OTP code is: %s\n", result.Code)
	}

	for {
		fmt.Print("otp: ")
		candidate, err := readLine(in)
		if err != nil {
			return
		}
		confirmed, err := engine.ConfirmLoginOTP(ctx, result.ChallengeID, candidate)
		if err == nil {
			fmt.Printf("login successful, welcome %s\n", confirmed.Username)
			if confirmed.Ticket != "" {
				fmt.Printf("ticket: %s\n", confirmed.Ticket)
			}
			return
		}
		fmt.Printf("otp rejected: %v\n", err)
		if errors.Is(err, goLogin.ErrAccountLocked) ||
			errors.Is(err, goLogin.ErrOTPAttemptsExceeded) ||
			errors.Is(err, goLogin.ErrNoPendingOTP) {
			return
		}
	}
}

func requestOTP(ctx context.Context, engine *goLogin.Engine, in *bufio.Reader) {
	fmt.Print("username: ")
	username, err := readLine(in)
	if err != nil {
		return
	}
	challenge, err := engine.RequestOTP(ctx, username)
	if err != nil {
		fmt.Printf("request failed: %v\n", err)
		return
	}
	if challenge.Reused {
		fmt.Println("an OTP is already outstanding for this account")
	}
	fmt.Printf("your OTP code is: %s\n", challenge.Code)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(in *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	// Piped input; fall back to a plain line read.
	return readLine(in)
}
