package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// JSON ABIs for the two contract surfaces. Only the fragments the service
// calls are declared.

const wishNFTABI = `[
  {"type":"function","name":"mintWish","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"wishText","type":"string"},{"name":"dateKey","type":"string"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"hasMintedToday","stateMutability":"view",
   "inputs":[{"name":"user","type":"address"},{"name":"dateKey","type":"string"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getWishesByAddress","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"}],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"tokenId","type":"uint256"},
     {"name":"wishText","type":"string"},
     {"name":"dateKey","type":"string"},
     {"name":"timestamp","type":"uint256"}]}]}
]`

const wishTokenABI = `[
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"allowance","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable",
   "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"swapUSDCForWISH","stateMutability":"nonpayable",
   "inputs":[{"name":"usdcAmount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"swapWISHForUSDC","stateMutability":"nonpayable",
   "inputs":[{"name":"wishAmount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getContractWISHBalance","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getContractUSDCBalance","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"claimSocialReward","stateMutability":"nonpayable",
   "inputs":[{"name":"taskId","type":"string"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"hasClaimedTask","stateMutability":"view",
   "inputs":[{"name":"user","type":"address"},{"name":"taskId","type":"string"}],
   "outputs":[{"name":"","type":"bool"}]}
]`

// The plain ERC-20 surface (USDC) is a strict subset of the token ABI, so
// the same parsed ABI serves both contracts.

func parseABI(def string) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing contract ABI: %w", err)
	}
	return parsed, nil
}
