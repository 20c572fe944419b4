package types

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/goccy/go-json"
)

// NodeData is the typed configuration payload attached to a node. Each node
// kind has its own variant; every variant carries a user-facing label.
type NodeData interface {
	NodeKind() NodeKind
	Label() string
	SetLabel(label string)
}

// labeled is embedded by every data variant.
type labeled struct {
	NodeLabel string `json:"label"`
}

func (l *labeled) Label() string         { return l.NodeLabel }
func (l *labeled) SetLabel(label string) { l.NodeLabel = label }

// WalletConnectData configures a wallet connection node.
type WalletConnectData struct {
	labeled
	WalletOptions  []string `json:"walletOptions"`
	SelectedWallet string   `json:"selectedWallet"`
	IsConnected    bool     `json:"isConnected"`
}

func (*WalletConnectData) NodeKind() NodeKind { return NodeWalletConnect }

// AssetSelectorData configures a chain/asset selection node.
type AssetSelectorData struct {
	labeled
	Chains        []string `json:"chains"`
	Assets        []string `json:"assets"`
	SelectedChain string   `json:"selectedChain"`
	SelectedAsset string   `json:"selectedAsset"`
	Amount        string   `json:"amount"`
}

func (*AssetSelectorData) NodeKind() NodeKind { return NodeAssetSelector }

// XCMTransferData configures a cross-chain transfer node.
type XCMTransferData struct {
	labeled
	SourceChain      string `json:"sourceChain"`
	DestinationChain string `json:"destinationChain"`
	XCMVersion       string `json:"xcmVersion"`
	FeeCalculation   string `json:"feeCalculation"`
	HRMPStatus       string `json:"hrmpStatus"`
}

func (*XCMTransferData) NodeKind() NodeKind { return NodeXCMTransfer }

// ConditionalData configures a logic-gate node. Condition is one of the
// operators understood by the rules package (greater_than, less_than,
// equals, not_equals, greater_equals, less_equals).
type ConditionalData struct {
	labeled
	Condition string `json:"condition"`
	Value     string `json:"value"`
	TimeDelay string `json:"timeDelay"`
	LogicType string `json:"logicType"`
}

func (*ConditionalData) NodeKind() NodeKind { return NodeConditional }

// DEXAggregatorData configures a best-price swap node.
type DEXAggregatorData struct {
	labeled
	DEXes             []string `json:"dexes"`
	SelectedDEXes     []string `json:"selectedDexes"`
	SlippageTolerance string   `json:"slippageTolerance"`
	RoutingStrategy   string   `json:"routingStrategy"`
}

func (*DEXAggregatorData) NodeKind() NodeKind { return NodeDEXAggregator }

// LiquidityPoolData configures an LP position node.
type LiquidityPoolData struct {
	labeled
	PoolType      string `json:"poolType"`
	PairA         string `json:"pairA"`
	PairB         string `json:"pairB"`
	StakingPeriod string `json:"stakingPeriod"`
	AutoCompound  bool   `json:"autoCompound"`
}

func (*LiquidityPoolData) NodeKind() NodeKind { return NodeLiquidityPool }

// YieldFarmData configures an auto-compounding farm node.
type YieldFarmData struct {
	labeled
	Platforms         []string `json:"platforms"`
	SelectedPlatform  string   `json:"selectedPlatform"`
	RiskLevel         string   `json:"riskLevel"`
	MinAPY            string   `json:"minAPY"`
	CompoundFrequency string   `json:"compoundFrequency"`
}

func (*YieldFarmData) NodeKind() NodeKind { return NodeYieldFarm }

// OracleFeedData configures a price/data feed node.
type OracleFeedData struct {
	labeled
	DataSource      string `json:"dataSource"`
	UpdateFrequency string `json:"updateFrequency"`
	CustomEndpoint  string `json:"customEndpoint"`
	DataType        string `json:"dataType"`
}

func (*OracleFeedData) NodeKind() NodeKind { return NodeOracleFeed }

// GovernanceData configures a voting automation node.
type GovernanceData struct {
	labeled
	GovernanceType    string `json:"governanceType"`
	ProposalID        string `json:"proposalId"`
	VotingPower       string `json:"votingPower"`
	DelegationEnabled bool   `json:"delegationEnabled"`
}

func (*GovernanceData) NodeKind() NodeKind { return NodeGovernance }

// AlertData configures a terminal notification node.
type AlertData struct {
	labeled
	AlertType string `json:"alertType"`
	Threshold string `json:"threshold"`
	Message   string `json:"message"`
	Enabled   bool   `json:"enabled"`
}

func (*AlertData) NodeKind() NodeKind { return NodeAlert }

// NewData returns a zero-valued data variant for the given kind.
func NewData(kind NodeKind) (NodeData, error) {
	switch kind {
	case NodeWalletConnect:
		return &WalletConnectData{}, nil
	case NodeAssetSelector:
		return &AssetSelectorData{}, nil
	case NodeXCMTransfer:
		return &XCMTransferData{}, nil
	case NodeConditional:
		return &ConditionalData{}, nil
	case NodeDEXAggregator:
		return &DEXAggregatorData{}, nil
	case NodeLiquidityPool:
		return &LiquidityPoolData{}, nil
	case NodeYieldFarm:
		return &YieldFarmData{}, nil
	case NodeOracleFeed:
		return &OracleFeedData{}, nil
	case NodeGovernance:
		return &GovernanceData{}, nil
	case NodeAlert:
		return &AlertData{}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}
}

// DecodeData unmarshals raw JSON into the data variant for kind.
func DecodeData(kind NodeKind, raw []byte) (NodeData, error) {
	data, err := NewData(kind)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", kind, err)
	}
	return data, nil
}

// MergeData shallow-merges partial into d and returns the merged variant.
// Unknown keys in partial are dropped by the variant's schema. The label is
// preserved when partial does not replace it.
func MergeData(d NodeData, partial map[string]interface{}) (NodeData, error) {
	if d == nil {
		return nil, fmt.Errorf("nil node data")
	}
	if len(partial) == 0 {
		return d, nil
	}

	encoded, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode %s data: %w", d.NodeKind(), err)
	}
	base := map[string]interface{}{}
	if err := json.Unmarshal(encoded, &base); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", d.NodeKind(), err)
	}

	if err := mergo.Merge(&base, partial, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge %s data: %w", d.NodeKind(), err)
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode merged %s data: %w", d.NodeKind(), err)
	}
	out, err := DecodeData(d.NodeKind(), merged)
	if err != nil {
		return nil, err
	}
	if out.Label() == "" {
		out.SetLabel(d.Label())
	}
	return out, nil
}

// nodeAlias avoids recursion in Node's custom codec.
type nodeAlias struct {
	ID       string          `json:"id"`
	Kind     NodeKind        `json:"type"`
	Position Position        `json:"position"`
	Data     json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes the data payload into the variant matching the
// node's kind.
func (n *Node) UnmarshalJSON(raw []byte) error {
	var alias nodeAlias
	if err := json.Unmarshal(raw, &alias); err != nil {
		return err
	}
	data, err := DecodeData(alias.Kind, alias.Data)
	if err != nil {
		return err
	}
	n.ID = alias.ID
	n.Kind = alias.Kind
	n.Position = alias.Position
	n.Data = data
	return nil
}
