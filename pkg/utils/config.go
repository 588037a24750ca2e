package utils

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron"
)

// PersisterType is the type of persister to use.
type PersisterType int

const (
	// PersisterTypeInvalid is an invalid persister value
	PersisterTypeInvalid PersisterType = iota

	// PersisterTypeNone is a persister that does nothing but return default values
	PersisterTypeNone

	// PersisterTypePostgresql is a persister that uses PostgreSQL as the backend
	PersisterTypePostgresql
)

var (
	// PersisterNameToType maps valid persister names to the types above
	PersisterNameToType = map[string]PersisterType{
		"none":       PersisterTypeNone,
		"postgresql": PersisterTypePostgresql,
	}
)

const (
	envVarPrefix = "gateway"

	usageListFormat = `The gateway is configured via environment vars only. The following environment variables can be used:
{{range .}}
{{usage_key .}}
  description: {{usage_description .}}
  type:        {{usage_type .}}
  default:     {{usage_default .}}
  required:    {{usage_required .}}
{{end}}
`
)

// GatewayConfig is the master config for the gateway derived from environment
// variables.
type GatewayConfig struct {
	EthAPIURL string `envconfig:"eth_api_url" required:"true" desc:"Ethereum API address"`
	ChainID   int64  `split_words:"true" default:"8453" desc:"Chain ID for payment signing"`

	// ContentManagerAddress may be left empty; the gateway then reports the
	// config failure category on every resolve rather than failing startup.
	ContentManagerAddress string `split_words:"true" desc:"Address of the ContentManager contract"`

	PaymentPrivateKey string `split_words:"true" desc:"Hex private key used to sign payment submissions"`

	ContentDir string `split_words:"true" default:"./content" desc:"Directory of .mdx post files"`

	ListenAddr string `split_words:"true" default:":8080" desc:"Address for the HTTP API to listen on"`

	CronConfig        string `split_words:"true" desc:"Cron config string * * * * * for pending payment reconciliation"`
	PendingMaxAgeSecs int    `split_words:"true" default:"900" desc:"Age in seconds after which a pending payment attempt is reconciled"`

	PersisterType            PersisterType `ignored:"true"`
	PersisterTypeName        string        `split_words:"true" default:"none" desc:"Sets the persister type to use"`
	PersisterPostgresAddress string        `split_words:"true" desc:"If persister type is Postgresql, sets the address"`
	PersisterPostgresPort    int           `split_words:"true" desc:"If persister type is Postgresql, sets the port"`
	PersisterPostgresDbname  string        `split_words:"true" desc:"If persister type is Postgresql, sets the database name"`
	PersisterPostgresUser    string        `split_words:"true" desc:"If persister type is Postgresql, sets the database user"`
	PersisterPostgresPw      string        `split_words:"true" desc:"If persister type is Postgresql, sets the database password"`

	PubSubProjectID string `split_words:"true" desc:"Sets the Google Cloud project ID for transition publishing"`
	PubSubTopicName string `split_words:"true" desc:"Sets the pubsub topic for transition publishing"`
}

// OutputUsage prints the usage string to os.Stdout
func (c *GatewayConfig) OutputUsage() {
	tabs := tabwriter.NewWriter(os.Stdout, 1, 0, 4, ' ', 0)
	_ = envconfig.Usagef(envVarPrefix, c, tabs, usageListFormat) // nolint: gosec
	_ = tabs.Flush()                                             // nolint: gosec
}

// PopulateFromEnv processes the environment vars, populates GatewayConfig
// with the respective values, and validates the values.
func (c *GatewayConfig) PopulateFromEnv() error {
	err := envconfig.Process(envVarPrefix, c)
	if err != nil {
		return err
	}

	err = c.validateAPIURL()
	if err != nil {
		return err
	}

	err = c.validateContractAddress()
	if err != nil {
		return err
	}

	err = c.validateCronConfig()
	if err != nil {
		return err
	}

	err = c.populatePersisterType()
	if err != nil {
		return err
	}

	return c.validatePersister()
}

// ContractAddress returns the parsed ContentManager contract address, the
// zero address when unconfigured
func (c *GatewayConfig) ContractAddress() common.Address {
	if !common.IsHexAddress(c.ContentManagerAddress) {
		return common.Address{}
	}
	return common.HexToAddress(c.ContentManagerAddress)
}

func (c *GatewayConfig) validateAPIURL() error {
	parsed, err := url.Parse(c.EthAPIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("Invalid eth API URL: '%v'", c.EthAPIURL)
	}
	return nil
}

func (c *GatewayConfig) validateContractAddress() error {
	if c.ContentManagerAddress == "" {
		return nil
	}
	if !common.IsHexAddress(c.ContentManagerAddress) {
		return fmt.Errorf("Invalid ContentManager address: '%v'", c.ContentManagerAddress)
	}
	return nil
}

func (c *GatewayConfig) validateCronConfig() error {
	if c.CronConfig == "" {
		return nil
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(c.CronConfig)
	if err != nil {
		return fmt.Errorf("Invalid cron config: '%v'", c.CronConfig)
	}
	return nil
}

func (c *GatewayConfig) validatePersister() error {
	var err error
	if c.PersisterType == PersisterTypePostgresql {
		err = c.validatePostgresqlPersister()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *GatewayConfig) validatePostgresqlPersister() error {
	if c.PersisterPostgresAddress == "" {
		return errors.New("Postgresql address required")
	}
	if c.PersisterPostgresPort == 0 {
		return errors.New("Postgresql port required")
	}
	if c.PersisterPostgresDbname == "" {
		return errors.New("Postgresql db name required")
	}
	return nil
}

func (c *GatewayConfig) populatePersisterType() error {
	var err error
	c.PersisterType, err = PersisterTypeFromName(c.PersisterTypeName)
	return err
}

// PersisterTypeFromName returns the correct persisterType from the string name
func PersisterTypeFromName(typeStr string) (PersisterType, error) {
	pType, ok := PersisterNameToType[typeStr]
	if !ok {
		validNames := make([]string, len(PersisterNameToType))
		index := 0
		for name := range PersisterNameToType {
			validNames[index] = name
			index++
		}
		return PersisterTypeInvalid,
			fmt.Errorf("Invalid persister value: %v; valid types %v", typeStr, validNames)
	}
	return pType, nil
}
