package params

import (
	"github.com/ethereum/go-ethereum/common"
)

// Network describes one chain the exchange is deployed to, with the contract
// addresses everything else hangs off.
type Network struct {
	ChainID                uint64 `json:"chainId" validate:"required"`
	ChainName              string `json:"chainName" validate:"required"`
	RPCURL                 string `json:"rpcUrl" validate:"required,url"`
	BlockExplorerURL       string `json:"blockExplorerUrl,omitempty"`
	NativeCurrencySymbol   string `json:"nativeCurrencySymbol,omitempty"`
	NativeCurrencyDecimals uint64 `json:"nativeCurrencyDecimals"`
	IsTest                 bool   `json:"isTest"`

	// QuoterAPIURL is the REST endpoint quotes are fetched from.
	QuoterAPIURL string `json:"quoterApiUrl" validate:"required,url"`

	RouterAddress        common.Address `json:"routerAddress" validate:"required"`
	QuoterAddress        common.Address `json:"quoterAddress" validate:"required"`
	VaultRelayerAddress  common.Address `json:"vaultRelayerAddress"`
	StakerAddress        common.Address `json:"stakerAddress"`
	WrappedNativeAddress common.Address `json:"wrappedNativeAddress" validate:"required"`
}

// DefaultNetworks lists the known deployments. Callers may override or extend
// the set through ServiceConfig.
func DefaultNetworks() []Network {
	return []Network{
		{
			ChainID:                1,
			ChainName:              "Ethereum Mainnet",
			RPCURL:                 "https://mainnet.infura.io/v3/",
			BlockExplorerURL:       "https://etherscan.io/",
			NativeCurrencySymbol:   "ETH",
			NativeCurrencyDecimals: 18,
			QuoterAPIURL:           "https://quoter.ignis.exchange/v1",
			RouterAddress:          common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
			QuoterAddress:          common.HexToAddress("0x61fFE014bA17989E743c5F6cB21bF9697530B21e"),
			VaultRelayerAddress:    common.HexToAddress("0xC92E8bdf79f0507f65a392b0ab4667716BFE0110"),
			StakerAddress:          common.HexToAddress("0x92f3f71CeF740ED5784874B8C70Ff87ECdF33588"),
			WrappedNativeAddress:   common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		},
		{
			ChainID:                8453,
			ChainName:              "Base",
			RPCURL:                 "https://mainnet.base.org",
			BlockExplorerURL:       "https://basescan.org/",
			NativeCurrencySymbol:   "ETH",
			NativeCurrencyDecimals: 18,
			QuoterAPIURL:           "https://quoter.base.ignis.exchange/v1",
			RouterAddress:          common.HexToAddress("0x2626664c2603336E57B271c5C0b26F421741e481"),
			QuoterAddress:          common.HexToAddress("0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a"),
			VaultRelayerAddress:    common.HexToAddress("0x198EF79F1F515F02dFE9e3115eD9fC07183f02fC"),
			WrappedNativeAddress:   common.HexToAddress("0x4200000000000000000000000000000000000006"),
		},
		{
			ChainID:                11155111,
			ChainName:              "Sepolia",
			RPCURL:                 "https://sepolia.infura.io/v3/",
			BlockExplorerURL:       "https://sepolia.etherscan.io/",
			NativeCurrencySymbol:   "ETH",
			NativeCurrencyDecimals: 18,
			IsTest:                 true,
			QuoterAPIURL:           "https://quoter.sepolia.ignis.exchange/v1",
			RouterAddress:          common.HexToAddress("0x3bFA4769FB09eefC5a80d6E87c3B9C650f7Ae48E"),
			QuoterAddress:          common.HexToAddress("0xEd1f6473345F45b75F8179591dd5bA1888cf2FB3"),
			WrappedNativeAddress:   common.HexToAddress("0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14"),
		},
	}
}
