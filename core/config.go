package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string // DEV (local; default), TEST, QA, PROD
		Build    string
		Debug    bool
		TestMode bool
		AppName  string

		SecretKey        string
		DefaultFromEmail mail.Address
		RollbarToken     string

		Server ServerConfig
		Demo   DemoConfig
		Lead   LeadConfig
		Admin  AdminConfig
	}

	ServerConfig struct {
		Address            string
		Host               string
		DebugAddress       string
		ReadTimeout        time.Duration
		WriteTimeout       time.Duration
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DisableReqLogs     bool
	}

	DemoConfig struct {
		AutoplayInterval time.Duration
		PulseDuration    time.Duration
		SessionTTL       time.Duration
		SweepInterval    time.Duration
		ContentFile      string // optional YAML override of the built-in content
	}

	LeadConfig struct {
		SubmitDelay time.Duration
		SalesEmail  mail.Address
	}

	AdminConfig struct {
		Username     string
		PasswordHash string // bcrypt; see `admin hashpassword`
	}
)

// NewConfig loads the app configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed by the env name: e.g. `DEV_SERVER_ADDRESS`, `PROD_ROLLBARTOKEN`.
func NewConfig() *Config {
	v := newViper()

	hostname, _ := os.Hostname()
	return &Config{
		Env:      v.GetString("env"),
		Build:    v.GetString("build"),
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),
		AppName:  v.GetString("appName"),

		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		RollbarToken:     v.GetString("rollbarToken"),

		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			Host:               hostname,
			DebugAddress:       v.GetString("server.debugAddress"),
			ReadTimeout:        v.GetDuration("server.readTimeout"),
			WriteTimeout:       v.GetDuration("server.writeTimeout"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			DisableReqLogs:     v.GetBool("server.disableReqLogs"),
		},
		Demo: DemoConfig{
			AutoplayInterval: v.GetDuration("demo.autoplayInterval"),
			PulseDuration:    v.GetDuration("demo.pulseDuration"),
			SessionTTL:       v.GetDuration("demo.sessionTTL"),
			SweepInterval:    v.GetDuration("demo.sweepInterval"),
			ContentFile:      v.GetString("demo.contentFile"),
		},
		Lead: LeadConfig{
			SubmitDelay: v.GetDuration("lead.submitDelay"),
			SalesEmail:  mail.Address{Name: "Sales", Address: v.GetString("lead.salesEmail")},
		},
		Admin: AdminConfig{
			Username:     v.GetString("admin.username"),
			PasswordHash: v.GetString("admin.passwordHash"),
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Masomo")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	// websocket streams outlive a single write; keep 0 (no timeout) to not kill them
	v.SetDefault("server.writeTimeout", time.Duration(0))
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("demo.autoplayInterval", 3*time.Second)
	v.SetDefault("demo.pulseDuration", 2*time.Second)
	v.SetDefault("demo.sessionTTL", 30*time.Minute)
	v.SetDefault("demo.sweepInterval", time.Minute)
	v.SetDefault("demo.contentFile", "")

	v.SetDefault("lead.submitDelay", 2*time.Second)
	v.SetDefault("lead.salesEmail", "sales@localhost")

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.passwordHash", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("lead.submitDelay", time.Duration(0))
	}
	v.Set("env", env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()
	return v
}
