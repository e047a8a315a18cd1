package cli

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/olehkaliuzhnyi/auction-demo/internal/contract"
	"github.com/olehkaliuzhnyi/auction-demo/pkg/models"
)

var zeroBloom = "0x" + strings.Repeat("00", 256)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// fakeNode is a minimal JSON-RPC node serving the calls the auction client makes.
type fakeNode struct {
	t        *testing.T
	mu       sync.Mutex
	methods  []string
	listings []byte
	sendErr  string
	status   string // receipt status, "0x1" or "0x0"
}

func newFakeNode(t *testing.T, listings []models.Listing) (*fakeNode, *httptest.Server) {
	t.Helper()
	parsed, err := contract.LoadABI("../../contracts/Auction.json")
	if err != nil {
		t.Fatal(err)
	}
	packed, err := parsed.Methods[contract.MethodFetchAllListings].Outputs.Pack(listings)
	if err != nil {
		t.Fatal(err)
	}
	n := &fakeNode{t: t, listings: packed, status: "0x1"}
	srv := httptest.NewServer(n)
	t.Cleanup(srv.Close)
	return n, srv
}

func (n *fakeNode) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.methods...)
}

func (n *fakeNode) count(method string) int {
	c := 0
	for _, m := range n.calls() {
		if m == method {
			c++
		}
	}
	return c
}

func (n *fakeNode) indexOf(method string) int {
	for i, m := range n.calls() {
		if m == method {
			return i
		}
	}
	return -1
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.methods = append(n.methods, req.Method)
	n.mu.Unlock()

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	result, rerr := n.handle(req)
	if rerr != nil {
		resp.Error = rerr
	} else {
		resp.Result = result
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		n.t.Errorf("encode response: %v", err)
	}
}

func (n *fakeNode) handle(req rpcRequest) (interface{}, *rpcError) {
	switch req.Method {
	case "eth_chainId":
		return "0x7a69", nil
	case "eth_getBlockByNumber":
		return map[string]string{
			"parentHash":       common.Hash{}.Hex(),
			"sha3Uncles":       types.EmptyUncleHash.Hex(),
			"miner":            common.Address{}.Hex(),
			"stateRoot":        common.Hash{}.Hex(),
			"transactionsRoot": types.EmptyTxsHash.Hex(),
			"receiptsRoot":     types.EmptyReceiptsHash.Hex(),
			"logsBloom":        zeroBloom,
			"difficulty":       "0x0",
			"number":           "0x1",
			"gasLimit":         "0x1c9c380",
			"gasUsed":          "0x0",
			"timestamp":        "0x6553f100",
			"extraData":        "0x",
			"baseFeePerGas":    "0x3b9aca00",
		}, nil
	case "eth_maxPriorityFeePerGas", "eth_gasPrice":
		return "0x3b9aca00", nil
	case "eth_getCode":
		return "0x6080604052", nil
	case "eth_estimateGas":
		return "0x30d40", nil
	case "eth_getTransactionCount":
		return "0x0", nil
	case "eth_sendRawTransaction":
		if n.sendErr != "" {
			return nil, &rpcError{Code: -32000, Message: n.sendErr}
		}
		var raw string
		if err := json.Unmarshal(req.Params[0], &raw); err != nil {
			return nil, &rpcError{Code: -32602, Message: err.Error()}
		}
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(hexutil.MustDecode(raw)); err != nil {
			return nil, &rpcError{Code: -32602, Message: err.Error()}
		}
		return tx.Hash().Hex(), nil
	case "eth_getTransactionReceipt":
		var hash string
		if err := json.Unmarshal(req.Params[0], &hash); err != nil {
			return nil, &rpcError{Code: -32602, Message: err.Error()}
		}
		return map[string]interface{}{
			"type":              "0x2",
			"status":            n.status,
			"cumulativeGasUsed": "0x30d40",
			"logsBloom":         zeroBloom,
			"logs":              []interface{}{},
			"transactionHash":   hash,
			"gasUsed":           "0x30d40",
			"blockHash":         common.HexToHash("0x0b").Hex(),
			"blockNumber":       "0x2",
			"transactionIndex":  "0x0",
		}, nil
	case "eth_blockNumber":
		return "0x2", nil
	case "eth_call":
		return hexutil.Encode(n.listings), nil
	default:
		return nil, &rpcError{Code: -32601, Message: fmt.Sprintf("method %s not found", req.Method)}
	}
}

func fixedListings() []models.Listing {
	return []models.Listing{{
		Id:            big.NewInt(1),
		Seller:        common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Title:         "Painting",
		IpfsHash:      "QmImageHashExample",
		MinBid:        big.NewInt(100_000_000_000_000_000),
		EndTime:       big.NewInt(1_700_003_600),
		Beneficiary:   common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		HighestBidder: common.Address{},
		HighestBid:    big.NewInt(0),
		Ended:         false,
	}}
}
