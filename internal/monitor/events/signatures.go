package events

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
)

// Canonical event signatures for the supported contract types.
const (
	SigTransfer       = "Transfer(address,address,uint256)"
	SigApproval       = "Approval(address,address,uint256)"
	SigApprovalForAll = "ApprovalForAll(address,address,bool)"
	SigTransferSingle = "TransferSingle(address,address,address,uint256,uint256)"
	SigTransferBatch  = "TransferBatch(address,address,address,uint256[],uint256[])"
	SigSwapV2         = "Swap(address,uint256,uint256,uint256,uint256,address)"
	SigSync           = "Sync(uint112,uint112)"
	SigMintV2         = "Mint(address,uint256,uint256)"
	SigBurnV2         = "Burn(address,uint256,uint256,address)"
	SigDeposit        = "Deposit(address,uint256)"
	SigWithdrawal     = "Withdrawal(address,uint256)"
	SigBorrow         = "Borrow(address,address,uint256,uint8,uint256,uint16)"
	SigRepay          = "Repay(address,address,address,uint256,bool)"
)

// EventTopic returns the keccak256 topic hash of a canonical signature.
func EventTopic(signature string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// TopicTransfer is precomputed because both the whale classifier and the
// event watcher filter on it.
var TopicTransfer = EventTopic(SigTransfer)

// signatureSets maps each resolvable contract type to the signatures it is
// watched for when the caller supplies none.
var signatureSets = map[domain.ContractType][]string{
	domain.ContractERC20:   {SigTransfer, SigApproval},
	domain.ContractERC721:  {SigTransfer, SigApproval, SigApprovalForAll},
	domain.ContractERC1155: {SigTransferSingle, SigTransferBatch, SigApprovalForAll},
	domain.ContractAMMPool: {SigSwapV2, SigSync, SigMintV2, SigBurnV2},
	domain.ContractLending: {SigDeposit, SigWithdrawal, SigBorrow, SigRepay},
}

// SignaturesFor resolves the signature set for a contract type. Custom or
// unresolved types default to the ERC-20 set.
func SignaturesFor(t domain.ContractType) []string {
	if sigs, ok := signatureSets[t]; ok {
		return sigs
	}
	return signatureSets[domain.ContractERC20]
}

// TopicsFor hashes a signature list into topic filters.
func TopicsFor(signatures []string) []string {
	topics := make([]string, len(signatures))
	for i, s := range signatures {
		topics[i] = EventTopic(s)
	}
	return topics
}

// eventName extracts the event identifier from a canonical signature.
func eventName(signature string) string {
	if i := strings.IndexByte(signature, '('); i > 0 {
		return signature[:i]
	}
	return signature
}

// topicNames maps known topic hashes back to event names for decoding.
var topicNames = func() map[string]string {
	m := make(map[string]string)
	for _, sigs := range signatureSets {
		for _, sig := range sigs {
			m[EventTopic(sig)] = eventName(sig)
		}
	}
	return m
}()
