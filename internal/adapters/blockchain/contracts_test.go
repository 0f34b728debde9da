package blockchain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain/models"
)

// Hand-assembled test contracts.
//
// ownable: slot 0 holds the owner, set to the deployer. owner() and
// transferOwnership(address), the latter reverting without data for non-owners.
//
// guard: ownable plus whitelistedContracts(address), setContractWhitelisted(address,bool)
// and ping(), which reverts with Error("NO_CONTRACTS") unless
// msg.sender == tx.origin or the sender is whitelisted.
//
// forwarder: calls ping() on the address passed as first argument and bubbles
// up any revert.
//
// stub: runtime code is a single STOP, so it accepts any call.
const (
	ownableBytecode   = "0x33600055610042806100116000396000f360003560e01c80638da5cb5b14610020578063f2fde38b1461002c57600080fd5b60005460005260206000f35b600054331461003a57600080fd5b60043560005500"
	guardBytecode     = "0x33600055610138806100116000396000f360003560e01c80638da5cb5b14610041578063391feebb1461004d578063118f8169146100675780635c36b186146100a1578063f2fde38b1461008b57600080fd5b60005460005260206000f35b600435600052600160205260406000205460005260206000f35b600054331461007557600080fd5b6024356004356000526001602052604060002055005b600054331461009957600080fd5b600435600055005b3332146100c9573360005260016020526040600020546100c95760646100d460003960646000fd5b600160005260206000f308c379a00000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000000c4e4f5f434f4e5452414354530000000000000000000000000000000000000000"
	forwarderBytecode = "0x6100338061000d6000396000f3635c36b18660e01b600052600060006004600060006004355af1610028573d600060003e3d6000fd5b600160005260206000f3"
	stubBytecode      = "0x6100018061000d6000396000f300"
)

const (
	guardTestABI = `[
  {"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
  {"type":"function","name":"transferOwnership","inputs":[{"name":"newOwner","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"whitelistedContracts","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"setContractWhitelisted","inputs":[{"name":"_contract","type":"address"},{"name":"_isWhitelisted","type":"bool"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"ping","inputs":[],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"}
]`
	forwarderTestABI = `[
  {"type":"function","name":"forward","inputs":[{"name":"target","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"}
]`
	tokenTestABI = `[
  {"type":"constructor","inputs":[{"name":"dao","type":"address"},{"name":"supply","type":"uint256"}],"stateMutability":"nonpayable"}
]`
	proxyAdminTestABI = `[
  {"type":"constructor","inputs":[{"name":"initialOwner","type":"address"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"upgrade","inputs":[{"name":"proxy","type":"address"},{"name":"implementation","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"upgradeAndCall","inputs":[{"name":"proxy","type":"address"},{"name":"implementation","type":"address"},{"name":"data","type":"bytes"}],"outputs":[],"stateMutability":"payable"}
]`
	proxyTestABI = `[
  {"type":"constructor","inputs":[{"name":"_logic","type":"address"},{"name":"admin_","type":"address"},{"name":"_data","type":"bytes"}],"stateMutability":"payable"}
]`
)

func testArtifact(name, abiJSON, bytecode string) *models.Artifact {
	return &models.Artifact{
		Name:     name,
		ABI:      mustParseABI(abiJSON),
		Bytecode: common.FromHex(bytecode),
		Format:   "foundry",
	}
}
