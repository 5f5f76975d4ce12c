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
	ServerConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// ChainConfig holds everything needed to reach the EducationGrades
	// contract: an RPC endpoint and the deploy artifacts consumed at runtime.
	ChainConfig struct {
		RPCURL              string
		ChainID             int64
		ContractAddress     string
		ArtifactPath        string // hardhat contract-address.json; used when ContractAddress is empty
		ConfirmationTimeout time.Duration
	}

	WalletConfig struct {
		KeystoreDir string
		Account     string // preferred account; first keystore account when empty
		Passphrase  string
	}

	Config struct {
		Debug            bool
		Env              string // DEV (default), TEST, QA, PROD
		AppName          string
		SecretKey        string
		Build            string
		RollbarToken     string
		SendgridApiKey   string
		defaultFromEmail string

		Server ServerConfig
		Chain  ChainConfig
		Wallet WalletConfig
	}
)

func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Gradechain")
	conf.SetDefault("secretKey", "+#tg0u3bqys&$e(fm)j1@_r7l-x5z8!wnpc%2vhd4ka96io*")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8080")
	conf.SetDefault("server.debugHost", "localhost:8081")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	conf.SetDefault("chain.rpcUrl", "http://127.0.0.1:8545")
	conf.SetDefault("chain.chainId", 31337) // hardhat local network
	conf.SetDefault("chain.contractAddress", "")
	conf.SetDefault("chain.artifactPath", filepath.Join("contracts", "contract-address.json"))
	conf.SetDefault("chain.confirmationTimeout", 2*time.Minute)

	conf.SetDefault("wallet.keystoreDir", filepath.Join("wallet", "keystore"))
	conf.SetDefault("wallet.account", "")
	conf.SetDefault("wallet.passphrase", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()

	return &Config{
		Debug:            conf.GetBool("debug"),
		Env:              env,
		AppName:          conf.GetString("appName"),
		SecretKey:        conf.GetString("secretKey"),
		Build:            conf.GetString("build"),
		RollbarToken:     conf.GetString("rollbarToken"),
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		defaultFromEmail: conf.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:                      conf.GetString("server.host"),
			Address:                   conf.GetString("server.address"),
			DebugHost:                 conf.GetString("server.debugHost"),
			ShutdownTimeout:           conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Chain: ChainConfig{
			RPCURL:              conf.GetString("chain.rpcUrl"),
			ChainID:             conf.GetInt64("chain.chainId"),
			ContractAddress:     conf.GetString("chain.contractAddress"),
			ArtifactPath:        conf.GetString("chain.artifactPath"),
			ConfirmationTimeout: conf.GetDuration("chain.confirmationTimeout"),
		},
		Wallet: WalletConfig{
			KeystoreDir: conf.GetString("wallet.keystoreDir"),
			Account:     conf.GetString("wallet.account"),
			Passphrase:  conf.GetString("wallet.passphrase"),
		},
	}
}

func (c *Config) IsTestMode() bool {
	return c.Env == "TEST"
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
}
