package events

import (
	"math/big"
	"strings"
	"time"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/metrics"
	"github.com/SolTwizzy/chainpulse/internal/registry"
)

// Decoder turns raw logs into typed contract events. Counterparty and
// amount extraction is tailored per event shape and is best-effort: AMM
// and lending events in the wild vary, and anything unmatched lands in the
// generic OtherData map.
type Decoder struct {
	tokens *registry.TokenRegistry
}

func NewDecoder(tokens *registry.TokenRegistry) *Decoder {
	return &Decoder{tokens: tokens}
}

func (d *Decoder) Decode(l chain.Log) domain.ContractEvent {
	ev := domain.ContractEvent{
		Contract:     l.Address,
		ContractName: d.contractName(l.Chain, l.Address),
		TxHash:       l.TxHash,
		BlockNumber:  l.BlockNumber,
		Chain:        l.Chain,
		ReceivedAt:   time.Now().UTC(),
	}

	if len(l.Topics) == 0 {
		ev.EventName = "Unknown"
		ev.Decoded = domain.OtherData{Args: map[string]string{"signature": l.TxHash}}
		metrics.EventsDecoded.WithLabelValues(string(l.Chain), string(domain.EventOther)).Inc()
		return ev
	}

	topic0 := strings.ToLower(l.Topics[0])
	name, known := topicNames[topic0]
	if !known {
		ev.EventName = "Unknown"
		ev.Decoded = otherArgs(l)
		metrics.EventsDecoded.WithLabelValues(string(l.Chain), string(domain.EventOther)).Inc()
		return ev
	}

	ev.EventName = name
	ev.Decoded = d.decodeKnown(name, l)
	metrics.EventsDecoded.WithLabelValues(string(l.Chain), string(ev.Decoded.Kind())).Inc()
	return ev
}

func (d *Decoder) decodeKnown(name string, l chain.Log) domain.DecodedEventData {
	switch name {
	case "Transfer":
		data := domain.TransferData{
			From: topicAddress(l.Topics, 1),
			To:   topicAddress(l.Topics, 2),
		}
		if len(l.Topics) >= 4 {
			// ERC-721: tokenId is indexed, no data payload
			data.Value = topicBig(l.Topics, 3)
		} else {
			data.Value = dataWord(l.Data, 0)
		}
		return data

	case "TransferSingle":
		return domain.TransferData{
			From:  topicAddress(l.Topics, 2),
			To:    topicAddress(l.Topics, 3),
			Value: dataWord(l.Data, 1),
		}

	case "TransferBatch":
		// amounts are a dynamic array; keep counterparties, drop the total
		return domain.TransferData{
			From: topicAddress(l.Topics, 2),
			To:   topicAddress(l.Topics, 3),
		}

	case "Approval":
		return domain.ApprovalData{
			Owner:   topicAddress(l.Topics, 1),
			Spender: topicAddress(l.Topics, 2),
			Value:   dataWord(l.Data, 0),
		}

	case "ApprovalForAll":
		return domain.ApprovalData{
			Owner:   topicAddress(l.Topics, 1),
			Spender: topicAddress(l.Topics, 2),
		}

	case "Swap":
		// V2 pair layout: amount0In, amount1In, amount0Out, amount1Out
		in := sum(dataWord(l.Data, 0), dataWord(l.Data, 1))
		out := sum(dataWord(l.Data, 2), dataWord(l.Data, 3))
		return domain.SwapData{
			Sender:    topicAddress(l.Topics, 1),
			Recipient: topicAddress(l.Topics, 2),
			AmountIn:  in,
			AmountOut: out,
		}

	case "Mint":
		return domain.MintData{
			To:    topicAddress(l.Topics, 1),
			Value: dataWord(l.Data, 0),
		}

	case "Burn":
		return domain.BurnData{
			From:  topicAddress(l.Topics, 1),
			Value: dataWord(l.Data, 0),
		}

	case "Deposit":
		return domain.DepositData{
			Account: topicAddress(l.Topics, 1),
			Value:   dataWord(l.Data, 0),
		}

	case "Withdrawal":
		return domain.WithdrawalData{
			Account: topicAddress(l.Topics, 1),
			Value:   dataWord(l.Data, 0),
		}

	default:
		return otherArgs(l)
	}
}

func (d *Decoder) contractName(chainID domain.Chain, address string) string {
	if t, ok := d.tokens.Lookup(chainID, address); ok {
		return t.Name
	}
	if len(address) > 10 {
		return address[:10]
	}
	return address
}

func otherArgs(l chain.Log) domain.OtherData {
	args := map[string]string{"data": l.Data}
	for i, t := range l.Topics {
		args["topic"+string(rune('0'+i))] = t
	}
	return domain.OtherData{Args: args}
}

func topicAddress(topics []string, i int) string {
	if i >= len(topics) {
		return ""
	}
	t := topics[i]
	if len(t) >= 42 {
		return strings.ToLower("0x" + t[len(t)-40:])
	}
	return ""
}

func topicBig(topics []string, i int) *big.Int {
	if i >= len(topics) {
		return nil
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(topics[i], "0x"), 16)
	if !ok {
		return nil
	}
	return n
}

// dataWord extracts the i-th 32-byte word of the data payload.
func dataWord(data string, i int) *big.Int {
	clean := strings.TrimPrefix(data, "0x")
	start := i * 64
	if start+64 > len(clean) {
		return nil
	}
	n, ok := new(big.Int).SetString(clean[start:start+64], 16)
	if !ok {
		return nil
	}
	return n
}

func sum(a, b *big.Int) *big.Int {
	out := new(big.Int)
	if a != nil {
		out.Add(out, a)
	}
	if b != nil {
		out.Add(out, b)
	}
	return out
}
